package dungeon

import (
	"math/rand"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
)

// Константы генерации
const (
	MapWidth  = 40
	MapHeight = 25
	MaxRooms  = 8
	MinSize   = 4
	MaxSize   = 10

	// PoolRoomSize - минимальная сторона комнаты, в которой может быть лужа
	PoolRoomSize = 9
)

// Generate создает новый уровень подземелья.
// Один и тот же rng-сид дает одну и ту же карту.
func Generate(level int, rng *rand.Rand, ids *types.IDAllocator, fill int) (*domain.GameWorld, domain.Position, error) {
	b := NewLevel(level, rng, ids).
		WithFill(fill).
		WithBase(domain.TerrainStone).
		WithRooms(MaxRooms).
		WithPools(0.5).
		WithTerraces().
		PlaceExit("up").
		PlaceExit("down")

	// Чем глубже, тем больше орков
	enemies := 2 + level
	orcs := 0
	if level > 3 {
		orcs = level - 3
	}
	b.SpawnEnemy("goblin", enemies).
		SpawnEnemy("rat", enemies/2).
		SpawnEnemy("orc", orcs)

	b.WithEntity(CreatePlayer(ids, b.GetStartPos()))
	return b.Build()
}
