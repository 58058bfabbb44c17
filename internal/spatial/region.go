package spatial

import (
	"fmt"
	"iter"
)

// noChildren - индекс-маркер листа в арене узлов
const noChildren int32 = -1

type regionNode[V comparable] struct {
	bounds Rect
	value  Value[V]
	// children - индекс первого из четырёх подряд идущих детей (NW, NE, SW, SE)
	// или noChildren для листа.
	children int32
}

func (n *regionNode[V]) isLeaf() bool {
	return n.children == noChildren
}

// RegionTree хранит значение для каждой клетки фиксированной сетки width×height.
//
// Области с одинаковым значением схлопываются: после любой вставки ни у одного узла
// не остаётся четырёх листьев-детей с равными значениями. Узлы лежат в плоской арене,
// дети адресуются индексами, освобождённые блоки переиспользуются.
//
// Дерево не потокобезопасно: все вызовы должны быть сериализованы снаружи.
type RegionTree[V comparable] struct {
	width, height int
	nodes         []regionNode[V]
	free          []int32
}

// NewRegionTree создаёт дерево на область [0,width) × [0,height), все клетки не заданы.
func NewRegionTree[V comparable](width, height int) *RegionTree[V] {
	t := &RegionTree[V]{
		width:  width,
		height: height,
		nodes:  make([]regionNode[V], 1, 64),
	}
	t.nodes[0] = regionNode[V]{
		bounds:   Rect{X: 0, Y: 0, W: width, H: height},
		children: noChildren,
	}
	return t
}

func (t *RegionTree[V]) Width() int  { return t.width }
func (t *RegionTree[V]) Height() int { return t.height }

// Bounds возвращает фиксированную область дерева
func (t *RegionTree[V]) Bounds() Rect {
	return Rect{X: 0, Y: 0, W: t.width, H: t.height}
}

// Insert присваивает value каждой клетке bounds ∩ Bounds().
// Прямоугольник целиком вне области - тихий no-op.
func (t *RegionTree[V]) Insert(bounds Rect, value V) {
	t.insert(0, bounds, Some(value))
}

// Clear сбрасывает клетки bounds в состояние «не задано»
func (t *RegionTree[V]) Clear(bounds Rect) {
	t.insert(0, bounds, Unset[V]())
}

func (t *RegionTree[V]) insert(i int32, r Rect, v Value[V]) {
	nb := t.nodes[i].bounds
	if !r.Intersects(nb) {
		return
	}

	// Полное перекрытие: узел становится листом, поддерево уходит в free list
	if r.Contains(nb) {
		t.release(t.nodes[i].children)
		t.nodes[i].children = noChildren
		t.nodes[i].value = v
		return
	}

	if t.nodes[i].isLeaf() {
		if t.nodes[i].value.Equal(v) {
			return
		}
		t.split(i)
	}

	// t.nodes может переаллоцироваться в рекурсии, поэтому держим только индекс
	first := t.nodes[i].children
	for k := int32(0); k < 4; k++ {
		t.insert(first+k, r, v)
	}
	t.merge(i)
}

// split превращает лист i в четыре листа с его прежним значением
func (t *RegionTree[V]) split(i int32) {
	quads := t.nodes[i].bounds.Quadrants()
	value := t.nodes[i].value

	first := t.alloc()
	for k, q := range quads {
		t.nodes[first+int32(k)] = regionNode[V]{bounds: q, value: value, children: noChildren}
	}
	t.nodes[i].children = first
	t.nodes[i].value = Unset[V]()
}

// merge схлопывает детей узла i, если все они листья с одинаковым значением.
// Пустые (нулевой площади) дети не содержат клеток и в сравнении не участвуют.
func (t *RegionTree[V]) merge(i int32) {
	first := t.nodes[i].children
	var common Value[V]
	seen := false

	for k := int32(0); k < 4; k++ {
		c := &t.nodes[first+k]
		if !c.isLeaf() {
			return
		}
		if c.bounds.Empty() {
			continue
		}
		if !seen {
			common, seen = c.value, true
			continue
		}
		if !common.Equal(c.value) {
			return
		}
	}

	t.free = append(t.free, first)
	t.nodes[i].children = noChildren
	t.nodes[i].value = common
}

func (t *RegionTree[V]) alloc() int32 {
	if n := len(t.free); n > 0 {
		first := t.free[n-1]
		t.free = t.free[:n-1]
		return first
	}
	first := int32(len(t.nodes))
	t.nodes = append(t.nodes, make([]regionNode[V], 4)...)
	return first
}

// release возвращает блок детей и всё его поддерево в free list
func (t *RegionTree[V]) release(first int32) {
	if first == noChildren {
		return
	}
	for k := int32(0); k < 4; k++ {
		t.release(t.nodes[first+k].children)
	}
	t.free = append(t.free, first)
}

// Get возвращает значение клетки (x, y).
// Точка вне области - ошибка вызывающего кода: возвращается ErrOutOfBounds.
func (t *RegionTree[V]) Get(x, y int) (Value[V], error) {
	if !t.Bounds().ContainsPoint(x, y) {
		return Unset[V](), fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, t.width, t.height)
	}
	return t.nodes[t.leafAt(x, y)].value, nil
}

// Lookup - упрощённый Get для горячих путей (рендер, проверки проходимости).
// Вне области возвращает false.
func (t *RegionTree[V]) Lookup(x, y int) (V, bool) {
	if !t.Bounds().ContainsPoint(x, y) {
		var zero V
		return zero, false
	}
	return t.nodes[t.leafAt(x, y)].value.Get()
}

func (t *RegionTree[V]) leafAt(x, y int) int32 {
	i := int32(0)
	for !t.nodes[i].isLeaf() {
		first := t.nodes[i].children
		for k := int32(0); k < 4; k++ {
			if t.nodes[first+k].bounds.ContainsPoint(x, y) {
				i = first + k
				break
			}
		}
	}
	return i
}

// Leaves перечисляет заданные листья как пары (прямоугольник, значение).
// Порядок детерминирован для данной формы дерева: прямой обход NW, NE, SW, SE.
// Последовательность можно проходить повторно.
func (t *RegionTree[V]) Leaves() iter.Seq2[Rect, V] {
	return func(yield func(Rect, V) bool) {
		t.walkLeaves(0, yield)
	}
}

func (t *RegionTree[V]) walkLeaves(i int32, yield func(Rect, V) bool) bool {
	n := t.nodes[i]
	if n.isLeaf() {
		if v, ok := n.value.Get(); ok && !n.bounds.Empty() {
			return yield(n.bounds, v)
		}
		return true
	}
	for k := int32(0); k < 4; k++ {
		if !t.walkLeaves(n.children+k, yield) {
			return false
		}
	}
	return true
}

// Stats считает узлы, листья и глубину живого дерева
func (t *RegionTree[V]) Stats() Stats {
	var s Stats
	t.stats(0, 1, &s)
	return s
}

func (t *RegionTree[V]) stats(i int32, depth int, s *Stats) {
	s.Nodes++
	s.Depth = max(s.Depth, depth)
	n := t.nodes[i]
	if n.isLeaf() {
		s.Leaves++
		return
	}
	for k := int32(0); k < 4; k++ {
		t.stats(n.children+k, depth+1, s)
	}
}
