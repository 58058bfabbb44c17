package dungeon

import (
	"math/rand"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
)

// Жители поверхности
const SurfaceVillagers = 6

// GenerateSurface создает "домашний" уровень (поверхность): луг в каменной ограде,
// озеро в западной части, холм на востоке и спуск в подземелье в центре.
func GenerateSurface(rng *rand.Rand, ids *types.IDAllocator, fill int) (*domain.GameWorld, domain.Position, error) {
	startPos := domain.Position{X: MapWidth / 2, Y: MapHeight / 2}
	meadow := spatial.Rect{X: 1, Y: 1, W: MapWidth - 2, H: MapHeight - 2}

	// Озеро не дотягивается до центра карты
	lakeW, lakeH := 4+rng.Intn(4), 3+rng.Intn(3)
	lake := spatial.Rect{
		X: 2 + rng.Intn(MapWidth/4),
		Y: 2 + rng.Intn(MapHeight-lakeH-4),
		W: lakeW,
		H: lakeH,
	}
	shore := spatial.Rect{X: lake.X - 1, Y: lake.Y - 1, W: lake.W + 2, H: lake.H + 2}
	hill := spatial.Rect{X: MapWidth * 3 / 4, Y: 1, W: MapWidth/4 - 1, H: MapHeight - 2}

	b := NewLevel(0, rng, ids).
		WithFill(fill).
		WithBase(domain.TerrainWall).
		WithRegion(meadow, domain.TerrainGrass).
		WithRegion(shore, domain.TerrainSand).
		WithRegion(lake, domain.TerrainWater).
		WithElevation(hill, 1).
		WithStart(startPos).
		PlaceEntity(ExitDown, startPos).
		Spawn(Villager, meadow, SurfaceVillagers)

	return b.Build()
}
