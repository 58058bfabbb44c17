package domain

import (
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// LoadTerrain заполняет поверхность списком регионов. Регионы применяются по порядку,
// поздний перекрывает ранний. Неизвестный тип поверхности прерывает загрузку:
// уже применённые регионы остаются.
func (w *GameWorld) LoadTerrain(records []RegionRecord) error {
	for _, rec := range records {
		t, err := ParseTerrain(rec.ID)
		if err != nil {
			return err
		}
		w.Terrain.Insert(rec.Rect(), t)
	}
	return nil
}

// TerrainRecords выгружает поверхность обратно в список регионов.
// Прямоугольники могут не совпадать с исходными, но покрытие клеток то же самое.
func (w *GameWorld) TerrainRecords() []RegionRecord {
	var out []RegionRecord
	for r, t := range w.Terrain.Leaves() {
		out = append(out, recordFromRect(string(t), r))
	}
	return out
}

// SetTerrain заливает прямоугольник одним типом поверхности
func (w *GameWorld) SetTerrain(r spatial.Rect, t Terrain) {
	w.Terrain.Insert(r, t)
}

// TerrainAt возвращает поверхность клетки; вне карты - spatial.ErrOutOfBounds
func (w *GameWorld) TerrainAt(x, y int) (Terrain, error) {
	v, err := w.Terrain.Get(x, y)
	if err != nil {
		return "", err
	}
	return v.Or(TerrainStone), nil
}

// SetElevation задаёт высоту прямоугольнику
func (w *GameWorld) SetElevation(r spatial.Rect, h int) {
	w.Elevation.Insert(r, h)
}

// ElevationAt возвращает высоту клетки (0, если не задана или вне карты)
func (w *GameWorld) ElevationAt(x, y int) int {
	h, _ := w.Elevation.Lookup(x, y)
	return h
}

// IsWalkable: внутри карты и поверхность проходима. Незаданная клетка считается камнем.
func (w *GameWorld) IsWalkable(x, y int) bool {
	t, ok := w.Terrain.Lookup(x, y)
	return ok && t.Walkable()
}

// BlocksSight: вне карты и незаданные клетки тоже блокируют взгляд
func (w *GameWorld) BlocksSight(x, y int) bool {
	t, ok := w.Terrain.Lookup(x, y)
	return !ok || t.BlocksSight()
}
