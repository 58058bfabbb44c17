package spatial

import "errors"

var (
	// ErrOutOfBounds - запрос точки за пределами фиксированной области RegionTree.
	// Это ошибка вызывающего кода, а не штатная ситуация.
	ErrOutOfBounds = errors.New("spatial: point out of bounds")

	// ErrUnknownElement - Move/Remove для элемента, которого нет в PointTree.
	ErrUnknownElement = errors.New("spatial: unknown element")
)

// Stats - сводка по форме дерева для отладки и метрик
type Stats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	Depth    int `json:"depth"`
	Elements int `json:"elements,omitempty"`
	Growths  int `json:"growths,omitempty"`
}
