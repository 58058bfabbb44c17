package spatial

import (
	"fmt"
	"math"

	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

type pointNode[E comparable] struct {
	x, y, size int
	contents   []E
	children   int32
}

func (n *pointNode[E]) isLeaf() bool {
	return n.children == noChildren
}

func (n *pointNode[E]) bounds() Rect {
	return Rect{X: n.x, Y: n.y, W: n.size, H: n.size}
}

func (n *pointNode[E]) contains(p Point) bool {
	return p.X >= n.x && p.X < n.x+n.size && p.Y >= n.y && p.Y < n.y+n.size
}

// PointTree отслеживает текущие позиции набора элементов (обычно EntityID).
//
// Лист хранит не больше fill элементов; переполненный лист делится на четыре квадранта,
// пока сторона не станет меньше 2. Единственный источник правды о позициях - таблица
// positions: узлы хранят только идентификаторы. Точка вне корня приводит к росту дерева:
// корень заменяется большим квадратом, и все элементы вставляются заново.
//
// Сторона корня не превышает maxRootSize, а его дальний край не выходит за math.MaxInt.
// Точки, которые не помещаются даже в такой корень, лежат в списке outside и
// проверяются перебором. Элемент находится в дереве тогда и только тогда,
// когда корень содержит его позицию.
//
// Дерево не потокобезопасно: все вызовы должны быть сериализованы снаружи.
type PointTree[E comparable] struct {
	fill      int
	nodes     []pointNode[E]
	free      []int32
	positions map[E]Point
	outside   []E
	growths   int
}

const maxRootSize = 1 << 62

// NewPointTree создаёт дерево, корень которого - квадрат со стороной степени двойки,
// покрывающий bounds. fill < 1 трактуется как 1.
func NewPointTree[E comparable](bounds Rect, fill int) *PointTree[E] {
	if fill < 1 {
		fill = 1
	}
	t := &PointTree[E]{
		fill:      fill,
		positions: make(map[E]Point),
	}
	t.reset(bounds.X, bounds.Y, nextPow2(max(bounds.W, bounds.H, 1)))
	return t
}

// nextPow2 - наименьшая степень двойки >= n, не больше maxRootSize
func nextPow2(n int) int {
	p := 1
	for p < n && p < maxRootSize {
		p <<= 1
	}
	return p
}

// reset заменяет корень новым пустым квадратом.
// Начало сдвигается так, чтобы x+size не переполнялся.
func (t *PointTree[E]) reset(x, y, size int) {
	size = min(size, maxRootSize)
	x, y = min(x, math.MaxInt-size), min(y, math.MaxInt-size)
	t.nodes = make([]pointNode[E], 1, 64)
	t.nodes[0] = pointNode[E]{x: x, y: y, size: size, children: noChildren}
	t.free = nil
}

func (t *PointTree[E]) Fill() int { return t.fill }

// Bounds возвращает текущую квадратную область корня
func (t *PointTree[E]) Bounds() Rect {
	return t.nodes[0].bounds()
}

func (t *PointTree[E]) Len() int { return len(t.positions) }

// Position возвращает последнюю записанную позицию элемента
func (t *PointTree[E]) Position(e E) (Point, bool) {
	p, ok := t.positions[e]
	return p, ok
}

func (t *PointTree[E]) Has(e E) bool {
	_, ok := t.positions[e]
	return ok
}

// Elements возвращает все проиндексированные элементы в произвольном порядке
func (t *PointTree[E]) Elements() []E {
	out := make([]E, 0, len(t.positions))
	for e := range t.positions {
		out = append(out, e)
	}
	return out
}

// Insert добавляет элемент в точку (x, y). Никогда не отказывает: точка за пределами
// корня вызывает рост дерева, а если корень уже не может её покрыть, элемент попадает в outside.
// Повторная вставка уже известного элемента перемещает его.
func (t *PointTree[E]) Insert(e E, x, y int) {
	if _, ok := t.positions[e]; ok {
		// Ошибка невозможна: элемент есть в таблице
		_ = t.Move(e, x, y)
		return
	}

	p := Point{X: x, Y: y}
	t.positions[e] = p
	t.insertAt(e, p)
}

// insertAt раскладывает элемент, позиция которого уже записана в таблицу
func (t *PointTree[E]) insertAt(e E, p Point) {
	if !t.nodes[0].contains(p) {
		if !t.grow(p) {
			t.outside = append(t.outside, e)
		}
		return
	}
	t.insertFrom(0, e, p)
}

// place кладет элемент в дерево или в outside, если корень его не содержит
func (t *PointTree[E]) place(e E, p Point) {
	if t.nodes[0].contains(p) {
		t.insertFrom(0, e, p)
		return
	}
	t.outside = append(t.outside, e)
}

func (t *PointTree[E]) removeOutside(e E) {
	for k, other := range t.outside {
		if other == e {
			last := len(t.outside) - 1
			t.outside[k] = t.outside[last]
			var zero E
			t.outside[last] = zero
			t.outside = t.outside[:last]
			return
		}
	}
	panic(fmt.Sprintf("point tree: element %v missing from outside list", e))
}

// insertFrom спускается от узла i к листу, содержащему p, деля полные листья по пути
func (t *PointTree[E]) insertFrom(i int32, e E, p Point) {
	for {
		if t.nodes[i].isLeaf() {
			n := &t.nodes[i]
			if len(n.contents) < t.fill || n.size < 2 {
				n.contents = append(n.contents, e)
				return
			}
			t.split(i)
		}
		i = t.childFor(i, p)
	}
}

func (t *PointTree[E]) split(i int32) {
	parent := t.nodes[i]
	half := parent.size / 2

	first := t.alloc()
	for k := int32(0); k < 4; k++ {
		t.nodes[first+k] = pointNode[E]{
			x:        parent.x + int(k%2)*half,
			y:        parent.y + int(k/2)*half,
			size:     half,
			children: noChildren,
		}
	}
	t.nodes[i].children = first
	t.nodes[i].contents = nil

	for _, e := range parent.contents {
		c := t.childFor(i, t.positions[e])
		t.nodes[c].contents = append(t.nodes[c].contents, e)
	}
}

// childFor возвращает индекс квадранта узла i, в который попадает p
func (t *PointTree[E]) childFor(i int32, p Point) int32 {
	n := &t.nodes[i]
	half := n.size / 2
	k := int32(0)
	if p.X >= n.x+half {
		k++
	}
	if p.Y >= n.y+half {
		k += 2
	}
	return n.children + k
}

func (t *PointTree[E]) alloc() int32 {
	if n := len(t.free); n > 0 {
		first := t.free[n-1]
		t.free = t.free[:n-1]
		return first
	}
	first := int32(len(t.nodes))
	t.nodes = append(t.nodes, make([]pointNode[E], 4)...)
	return first
}

// grow заменяет корень квадратом со стороной степени двойки с запасом вокруг
// объединения старого корня и p, затем раскладывает все элементы из таблицы позиций.
// Сторона растёт минимум вдвое, поэтому амортизированная стоимость вставки остаётся O(log N).
// Если объединение не помещается в корень максимального размера, дерево не меняется
// и grow возвращает false.
func (t *PointTree[E]) grow(p Point) bool {
	old := t.Bounds()

	// Границы объединения включительно: x2+1 может переполниться
	x1, y1 := min(old.X, p.X), min(old.Y, p.Y)
	x2, y2 := max(old.Right()-1, p.X), max(old.Bottom()-1, p.Y)
	dx, dy := uint64(x2)-uint64(x1), uint64(y2)-uint64(y1)
	if max(dx, dy) >= maxRootSize {
		return false
	}
	w, h := int(dx)+1, int(dy)+1
	size := nextPow2(max(w, h))
	if size < maxRootSize {
		size *= 2
	}

	root := pointNode[E]{x: centre(x1, w, size), y: centre(y1, h, size), size: size}
	root.x, root.y = min(root.x, math.MaxInt-size), min(root.y, math.MaxInt-size)
	if !root.contains(p) || !root.contains(Point{X: old.X, Y: old.Y}) ||
		!root.contains(Point{X: old.Right() - 1, Y: old.Bottom() - 1}) {
		return false
	}

	t.reset(root.x, root.y, size)
	t.outside = t.outside[:0]
	for e, pos := range t.positions {
		t.place(e, pos)
	}
	t.growths++

	logger.Log.WithFields(logrus.Fields{
		"component":  "point_tree",
		"old_bounds": old.String(),
		"new_bounds": t.Bounds().String(),
		"trigger":    p,
		"elements":   len(t.positions),
	}).Debug("Point tree root replaced")
	return true
}

// centre - начало отрезка длины size, в середине которого лежит [lo, lo+span)
func centre(lo, span, size int) int {
	pad := size/2 - span/2
	if lo < math.MinInt+pad {
		return math.MinInt
	}
	return lo - pad
}

// Get возвращает элементы, записанные ровно в точке (x, y)
func (t *PointTree[E]) Get(x, y int) []E {
	p := Point{X: x, Y: y}
	if !t.nodes[0].contains(p) {
		var out []E
		for _, e := range t.outside {
			if t.positions[e] == p {
				out = append(out, e)
			}
		}
		return out
	}

	i := int32(0)
	for !t.nodes[i].isLeaf() {
		i = t.childFor(i, p)
	}

	var out []E
	for _, e := range t.nodes[i].contents {
		if t.positions[e] == p {
			out = append(out, e)
		}
	}
	return out
}

// GetRect возвращает элементы, чьи позиции лежат внутри r
func (t *PointTree[E]) GetRect(r Rect) []E {
	var out []E
	t.collect(0, r, &out)
	for _, e := range t.outside {
		if p := t.positions[e]; r.ContainsPoint(p.X, p.Y) {
			out = append(out, e)
		}
	}
	return out
}

func (t *PointTree[E]) collect(i int32, r Rect, out *[]E) {
	n := &t.nodes[i]
	if !n.bounds().Intersects(r) {
		return
	}
	if n.isLeaf() {
		for _, e := range n.contents {
			if p := t.positions[e]; r.ContainsPoint(p.X, p.Y) {
				*out = append(*out, e)
			}
		}
		return
	}
	for k := int32(0); k < 4; k++ {
		t.collect(n.children+k, r, out)
	}
}

// Move перемещает известный элемент в (x, y).
//
// Если лист со старой позицией покрывает и новую, меняется только таблица позиций.
// Иначе элемент уходит из листа и вставляется заново от ближайшего предка на пути,
// который содержит новую точку. Неизвестный элемент - ErrUnknownElement.
func (t *PointTree[E]) Move(e E, x, y int) error {
	old, ok := t.positions[e]
	if !ok {
		return fmt.Errorf("%w: move %v", ErrUnknownElement, e)
	}

	p := Point{X: x, Y: y}
	t.positions[e] = p
	if old == p {
		return nil
	}

	if !t.nodes[0].contains(old) {
		t.removeOutside(e)
		t.insertAt(e, p)
		return nil
	}

	// Рост перестраивает дерево из таблицы позиций целиком
	if !t.nodes[0].contains(p) {
		if t.grow(p) {
			return nil
		}
		path := t.pathTo(old)
		t.removeFromBucket(path[len(path)-1], e)
		t.prune(path)
		t.outside = append(t.outside, e)
		return nil
	}

	path := t.pathTo(old)
	leaf := path[len(path)-1]
	if t.nodes[leaf].contains(p) {
		return nil
	}

	t.removeFromBucket(leaf, e)

	from := int32(0)
	for j := len(path) - 2; j >= 0; j-- {
		if t.nodes[path[j]].contains(p) {
			from = path[j]
			break
		}
	}
	t.insertFrom(from, e, p)
	t.prune(path)
	return nil
}

// Remove удаляет элемент из дерева и таблицы позиций
func (t *PointTree[E]) Remove(e E) error {
	old, ok := t.positions[e]
	if !ok {
		return fmt.Errorf("%w: remove %v", ErrUnknownElement, e)
	}
	if !t.nodes[0].contains(old) {
		t.removeOutside(e)
		delete(t.positions, e)
		return nil
	}

	path := t.pathTo(old)
	t.removeFromBucket(path[len(path)-1], e)
	delete(t.positions, e)
	t.prune(path)
	return nil
}

// pathTo возвращает индексы узлов от корня до листа, содержащего p
func (t *PointTree[E]) pathTo(p Point) []int32 {
	path := make([]int32, 1, 16)
	i := int32(0)
	for !t.nodes[i].isLeaf() {
		i = t.childFor(i, p)
		path = append(path, i)
	}
	return path
}

func (t *PointTree[E]) removeFromBucket(i int32, e E) {
	contents := t.nodes[i].contents
	for k, other := range contents {
		if other == e {
			// Swap with last: порядок внутри листа не важен
			last := len(contents) - 1
			contents[k] = contents[last]
			var zero E
			contents[last] = zero
			t.nodes[i].contents = contents[:last]
			return
		}
	}
	panic(fmt.Sprintf("point tree: element %v missing from its leaf", e))
}

// prune поднимается по пути и схлопывает узлы, чьи четыре листа вместе
// держат не больше fill элементов
func (t *PointTree[E]) prune(path []int32) {
	for j := len(path) - 2; j >= 0; j-- {
		if !t.collapse(path[j]) {
			return
		}
	}
}

func (t *PointTree[E]) collapse(i int32) bool {
	if t.nodes[i].isLeaf() {
		return false
	}
	first := t.nodes[i].children
	total := 0
	for k := int32(0); k < 4; k++ {
		c := &t.nodes[first+k]
		if !c.isLeaf() {
			return false
		}
		total += len(c.contents)
	}
	if total > t.fill {
		return false
	}

	merged := make([]E, 0, total)
	for k := int32(0); k < 4; k++ {
		merged = append(merged, t.nodes[first+k].contents...)
		t.nodes[first+k].contents = nil
	}
	t.free = append(t.free, first)
	t.nodes[i].children = noChildren
	t.nodes[i].contents = merged
	return true
}

// Stats считает узлы, листья, глубину, элементы и число перестроений корня
func (t *PointTree[E]) Stats() Stats {
	s := Stats{Elements: len(t.positions), Growths: t.growths}
	t.stats(0, 1, &s)
	return s
}

func (t *PointTree[E]) stats(i int32, depth int, s *Stats) {
	s.Nodes++
	s.Depth = max(s.Depth, depth)
	n := &t.nodes[i]
	if n.isLeaf() {
		s.Leaves++
		return
	}
	for k := int32(0); k < 4; k++ {
		t.stats(n.children+k, depth+1, s)
	}
}
