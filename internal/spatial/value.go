package spatial

import "fmt"

// Value - значение клетки: либо «не задано», либо конкретное V.
//
// Нулевое Value[V] означает «не задано». Два незаданных значения равны между собой,
// поэтому слияние соседних листьев работает и для ещё не заполненных областей.
type Value[V comparable] struct {
	v   V
	set bool
}

// Some оборачивает конкретное значение
func Some[V comparable](v V) Value[V] {
	return Value[V]{v: v, set: true}
}

// Unset возвращает незаданное значение
func Unset[V comparable]() Value[V] {
	return Value[V]{}
}

func (v Value[V]) IsSet() bool { return v.set }

// Get возвращает значение и признак того, что оно задано
func (v Value[V]) Get() (V, bool) {
	return v.v, v.set
}

// Or возвращает значение или fallback, если значение не задано
func (v Value[V]) Or(fallback V) V {
	if !v.set {
		return fallback
	}
	return v.v
}

func (v Value[V]) Equal(other Value[V]) bool {
	if v.set != other.set {
		return false
	}
	return !v.set || v.v == other.v
}

func (v Value[V]) String() string {
	if !v.set {
		return "<unset>"
	}
	return fmt.Sprint(v.v)
}
