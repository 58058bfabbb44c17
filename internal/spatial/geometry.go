package spatial

import "fmt"

// Point - целочисленная точка сетки.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect - полуоткрытый прямоугольник [X, X+W) × [Y, Y+H).
// Прямоугольник с W <= 0 или H <= 0 пуст: он ничего не содержит и ни с чем не пересекается.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// ContainsPoint проверяет, лежит ли точка внутри прямоугольника
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Contains проверяет, что other целиком лежит внутри r.
// Пустой other не содержится ни в чём.
func (r Rect) Contains(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Bottom() <= r.Bottom()
}

func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Intersection возвращает общую часть прямоугольников (может быть пустой)
func (r Rect) Intersection(other Rect) Rect {
	x1, y1 := max(r.X, other.X), max(r.Y, other.Y)
	x2, y2 := min(r.Right(), other.Right()), min(r.Bottom(), other.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Quadrants делит прямоугольник на NW, NE, SW, SE.
// Левая/верхняя половина получает целую часть от деления, правая нижняя четверть забирает остаток,
// поэтому четыре части всегда покрывают r без зазоров. При ширине или высоте 1 часть четвертей
// получается пустой.
func (r Rect) Quadrants() [4]Rect {
	hw, hh := r.W/2, r.H/2
	return [4]Rect{
		{X: r.X, Y: r.Y, W: hw, H: hh},
		{X: r.X + hw, Y: r.Y, W: r.W - hw, H: hh},
		{X: r.X, Y: r.Y + hh, W: hw, H: r.H - hh},
		{X: r.X + hw, Y: r.Y + hh, W: r.W - hw, H: r.H - hh},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}
