package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance(t *testing.T) (*Instance, *domain.Entity, *domain.Entity) {
	t.Helper()
	world := domain.NewGameWorld(1, 10, 10, 2)
	world.SetTerrain(spatial.Rect{W: 10, H: 10}, domain.TerrainFloor)

	orc := &domain.Entity{
		ID:   types.PackEntityID(0, enums.EntityTypeMonster, 0, 1),
		Type: enums.EntityTypeMonster,
		Name: "orc",
		Pos:  domain.Position{X: 1, Y: 1},
		AI:   &domain.AIComponent{Speed: 100},
	}
	hero := &domain.Entity{
		ID:   types.PackEntityID(0, enums.EntityTypePlayer, 0, 2),
		Type: enums.EntityTypePlayer,
		Name: "hero",
		Pos:  domain.Position{X: 5, Y: 1},
	}
	require.NoError(t, world.AddEntity(orc))
	require.NoError(t, world.AddEntity(hero))

	return NewInstance(world, 1), orc, hero
}

func TestInstance_Step(t *testing.T) {
	inst, orc, _ := newTestInstance(t)
	// Без AI сущность в очередь не попадает
	assert.Equal(t, 1, inst.TurnManager.Len())

	report := inst.Step()
	assert.Equal(t, TickReport{Tick: 50, Moved: 1}, report)
	assert.Equal(t, domain.Position{X: 2, Y: 1}, orc.Pos)
	assert.Equal(t, 150, orc.AI.NextActionTick)

	// Скорость 100: следующий ход только через тик
	report = inst.Step()
	assert.Equal(t, TickReport{Tick: 100}, report)

	inst.Step()
	assert.Equal(t, domain.Position{X: 3, Y: 1}, orc.Pos)

	// Индекс позиций следует за сущностью
	inst.Read(func(w *domain.GameWorld) {
		assert.Equal(t, []*domain.Entity{orc}, w.GetEntitiesAt(3, 1))
		assert.Empty(t, w.GetEntitiesAt(1, 1))
		assert.Empty(t, w.GetEntitiesAt(2, 1))
	})

	// Догнал: рядом с целью стоит на месте
	for i := 0; i < 6; i++ {
		inst.Step()
	}
	assert.Equal(t, domain.Position{X: 4, Y: 1}, orc.Pos)
	assert.Equal(t, 450, inst.Summary().Tick)
}

func TestInstance_AddRemoveEntity(t *testing.T) {
	inst, orc, hero := newTestInstance(t)

	rat := &domain.Entity{
		ID:   types.PackEntityID(0, enums.EntityTypeMonster, 0, 3),
		Type: enums.EntityTypeMonster,
		Pos:  domain.Position{X: 8, Y: 8},
		AI:   &domain.AIComponent{Wanders: true, Speed: 50},
	}
	require.NoError(t, inst.AddEntity(rat))
	assert.Equal(t, 2, inst.TurnManager.Len())
	assert.Error(t, inst.AddEntity(rat))

	require.NoError(t, inst.RemoveEntity(orc.ID))
	assert.Equal(t, 1, inst.TurnManager.Len())
	assert.ErrorIs(t, inst.RemoveEntity(orc.ID), domain.ErrEntityNotFound)

	snap := inst.Snapshot(spatial.Rect{})
	require.Len(t, snap.Entities, 2)
	assert.Equal(t, hero.ID, snap.Entities[0].ID)
	assert.Len(t, inst.Queue(), 1)
}

func TestInstance_Broadcast(t *testing.T) {
	inst, _, _ := newTestInstance(t)
	ch := inst.Hub.Register("test")
	defer inst.Hub.Unregister("test")

	inst.Step()
	select {
	case ev := <-ch:
		assert.Equal(t, 50, ev.Tick)
	case <-time.After(time.Second):
		t.Fatal("no tick event")
	}
}

func TestInstance_RunConcurrentReads(t *testing.T) {
	inst, _, _ := newTestInstance(t)
	for i := uint32(10); i < 40; i++ {
		require.NoError(t, inst.AddEntity(&domain.Entity{
			ID:   types.PackEntityID(0, enums.EntityTypeNPC, 0, i),
			Type: enums.EntityTypeNPC,
			Pos:  domain.Position{X: int(i) % 10, Y: int(i) / 10 * 2},
			AI:   &domain.AIComponent{Wanders: true, Speed: 50},
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		inst.Run(ctx, time.Millisecond)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				snap := inst.Snapshot(spatial.Rect{X: 0, Y: 0, W: 5, H: 5})
				for _, e := range snap.Entities {
					assert.True(t, snap.Area.ContainsPoint(spatial.Point{X: e.Pos.X, Y: e.Pos.Y}))
				}
				inst.Summary()
			}
		}()
	}
	wg.Wait()

	summary := inst.Summary()
	assert.Positive(t, summary.Tick)
	assert.Equal(t, 32, summary.Entities.Elements)
}
