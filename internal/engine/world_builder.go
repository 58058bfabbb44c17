package engine

import (
	"fmt"
	"math/rand"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/dungeon"
)

// buildInitialWorlds создает поверхность и cfg.Worlds уровней подземелья.
// Каждый уровень строится своим rng от LevelSeed, ID сущностей общие на шард.
func buildInitialWorlds(cfg Config, ids *types.IDAllocator) ([]*domain.GameWorld, error) {
	worlds := make([]*domain.GameWorld, 0, cfg.Worlds+1)

	surface, _, err := dungeon.GenerateSurface(rand.New(rand.NewSource(cfg.LevelSeed(0))), ids, cfg.PointFill)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	worlds = append(worlds, surface)

	for level := 1; level <= cfg.Worlds; level++ {
		rng := rand.New(rand.NewSource(cfg.LevelSeed(level)))
		world, _, err := dungeon.Generate(level, rng, ids, cfg.PointFill)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}
		worlds = append(worlds, world)
	}

	return worlds, nil
}
