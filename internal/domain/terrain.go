package domain

import (
	"fmt"

	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// Terrain - тип поверхности клетки. Хранится в RegionTree, поэтому обязан быть comparable.
type Terrain string

const (
	TerrainFloor Terrain = "floor"
	TerrainWall  Terrain = "wall"
	TerrainStone Terrain = "stone"
	TerrainGrass Terrain = "grass"
	TerrainWater Terrain = "water"
	TerrainSand  Terrain = "sand"
	TerrainDoor  Terrain = "door"
)

var terrainProps = map[Terrain]struct {
	walkable    bool
	blocksSight bool
}{
	TerrainFloor: {walkable: true},
	TerrainGrass: {walkable: true},
	TerrainSand:  {walkable: true},
	TerrainDoor:  {walkable: true, blocksSight: true},
	TerrainWater: {walkable: false},
	TerrainWall:  {blocksSight: true},
	TerrainStone: {blocksSight: true},
}

// ParseTerrain проверяет идентификатор из записи региона
func ParseTerrain(id string) (Terrain, error) {
	t := Terrain(id)
	if _, ok := terrainProps[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTerrain, id)
	}
	return t, nil
}

func (t Terrain) Walkable() bool {
	return terrainProps[t].walkable
}

func (t Terrain) BlocksSight() bool {
	return terrainProps[t].blocksSight
}

// RegionRecord - прямоугольная область карты с одним типом поверхности.
// Так карта приходит от загрузчика и так же выгружается обратно.
type RegionRecord struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

func (r RegionRecord) Rect() spatial.Rect {
	return spatial.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func recordFromRect(id string, r spatial.Rect) RegionRecord {
	return RegionRecord{ID: id, X: r.X, Y: r.Y, W: r.W, H: r.H}
}
