package domain

import (
	"errors"
	"testing"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntity(idx uint32, kind enums.EntityType, x, y int) *Entity {
	return &Entity{
		ID:   types.PackEntityID(0, kind, 0, idx),
		Type: kind,
		Pos:  Position{X: x, Y: y},
	}
}

func TestGameWorld_AddRemoveEntity(t *testing.T) {
	world := NewGameWorld(1, 10, 10, 2)
	e := newTestEntity(1, enums.EntityTypeMonster, 5, 5)

	// Test Add
	require.NoError(t, world.AddEntity(e))
	if got := world.GetEntity(e.ID); got != e {
		t.Errorf("GetEntity returned wrong entity: got %v want %v", got, e)
	}
	assert.Equal(t, []*Entity{e}, world.GetEntitiesAt(5, 5))

	err := world.AddEntity(e)
	assert.True(t, errors.Is(err, ErrEntityExists), "second add: %v", err)

	// Test Remove
	require.NoError(t, world.RemoveEntity(e.ID))
	if world.GetEntity(e.ID) != nil {
		t.Error("Entity should be nil after removal")
	}
	assert.Empty(t, world.GetEntitiesAt(5, 5))

	err = world.RemoveEntity(e.ID)
	assert.True(t, errors.Is(err, ErrEntityNotFound), "second remove: %v", err)
}

func TestGameWorld_UpdateEntityPos(t *testing.T) {
	world := NewGameWorld(1, 10, 10, 1)
	hero := newTestEntity(1, enums.EntityTypePlayer, 1, 1)
	rat := newTestEntity(2, enums.EntityTypeMonster, 1, 1)
	require.NoError(t, world.AddEntity(hero))
	require.NoError(t, world.AddEntity(rat))

	require.NoError(t, world.UpdateEntityPos(hero, 8, 3))
	assert.Equal(t, Position{X: 8, Y: 3}, hero.Pos)
	assert.Equal(t, []*Entity{rat}, world.GetEntitiesAt(1, 1))
	assert.Equal(t, []*Entity{hero}, world.GetEntitiesAt(8, 3))

	// Индекс позиций растёт, даже если сущность ушла за край карты
	require.NoError(t, world.UpdateEntityPos(rat, 40, -7))
	assert.Equal(t, []*Entity{rat}, world.GetEntitiesAt(40, -7))

	ghost := newTestEntity(3, enums.EntityTypeNPC, 0, 0)
	err := world.UpdateEntityPos(ghost, 2, 2)
	assert.True(t, errors.Is(err, ErrEntityNotFound))
	assert.True(t, errors.Is(err, spatial.ErrUnknownElement))
}

func TestGameWorld_GetEntitiesIn(t *testing.T) {
	world := NewGameWorld(1, 20, 20, 2)
	var all []*Entity
	for i := 0; i < 10; i++ {
		e := newTestEntity(uint32(10-i), enums.EntityTypeItem, i*2, i)
		require.NoError(t, world.AddEntity(e))
		all = append(all, e)
	}

	got := world.GetEntitiesIn(spatial.Rect{X: 0, Y: 0, W: 6, H: 6})
	require.Len(t, got, 3)
	// Результат упорядочен по ID
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
	assert.Len(t, world.Entities(), len(all))
}

func TestGameWorld_TerrainRoundTrip(t *testing.T) {
	world := NewGameWorld(1, 12, 9, 0)
	records := []RegionRecord{
		{ID: "wall", X: 0, Y: 0, W: 12, H: 9},
		{ID: "floor", X: 1, Y: 1, W: 10, H: 7},
		{ID: "water", X: 4, Y: 3, W: 3, H: 2},
		{ID: "door", X: 0, Y: 4, W: 1, H: 1},
	}
	require.NoError(t, world.LoadTerrain(records))

	restored := NewGameWorld(1, 12, 9, 0)
	require.NoError(t, restored.LoadTerrain(world.TerrainRecords()))

	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			want, err := world.TerrainAt(x, y)
			require.NoError(t, err)
			got, err := restored.TerrainAt(x, y)
			require.NoError(t, err)
			require.Equal(t, want, got, "(%d,%d)", x, y)
		}
	}

	tt, _ := world.TerrainAt(5, 3)
	assert.Equal(t, TerrainWater, tt)
	assert.False(t, world.IsWalkable(5, 3))
	assert.True(t, world.IsWalkable(2, 2))
	assert.False(t, world.IsWalkable(-1, 2))
	assert.True(t, world.BlocksSight(0, 0))
	assert.True(t, world.BlocksSight(100, 0))
	assert.False(t, world.BlocksSight(2, 2))

	_, err := world.TerrainAt(12, 0)
	assert.True(t, errors.Is(err, spatial.ErrOutOfBounds))
}

func TestGameWorld_LoadTerrainUnknown(t *testing.T) {
	world := NewGameWorld(1, 4, 4, 0)
	err := world.LoadTerrain([]RegionRecord{{ID: "floor", W: 4, H: 4}, {ID: "lava", W: 1, H: 1}})
	assert.True(t, errors.Is(err, ErrUnknownTerrain))

	// Первая запись успела примениться
	got, _ := world.TerrainAt(0, 0)
	assert.Equal(t, TerrainFloor, got)
}

func TestGameWorld_Elevation(t *testing.T) {
	world := NewGameWorld(1, 8, 8, 0)
	world.SetElevation(spatial.Rect{X: 2, Y: 2, W: 3, H: 3}, 4)

	assert.Equal(t, 4, world.ElevationAt(3, 3))
	assert.Equal(t, 0, world.ElevationAt(0, 0))
	assert.Equal(t, 0, world.ElevationAt(-3, 0))
}

func TestGameWorld_Snapshot(t *testing.T) {
	world := NewGameWorld(2, 10, 10, 0)
	e := newTestEntity(1, enums.EntityTypeNPC, 3, 3)
	e.AI = &AIComponent{Wanders: true, Speed: 100}
	require.NoError(t, world.AddEntity(e))

	snap := world.Snapshot(spatial.Rect{})
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, spatial.Rect{W: 10, H: 10}, snap.Area)

	// Снимок не делит изменяемое состояние с миром
	snap.Entities[0].AI.NextActionTick = 999
	assert.Equal(t, 0, e.AI.NextActionTick)

	summary := world.Summary()
	assert.Equal(t, 1, summary.EntityCount)
	assert.Equal(t, 1, summary.Entities.Elements)
}

func TestAIComponent_Wait(t *testing.T) {
	ai := &AIComponent{}
	assert.True(t, ai.IsReady(0))

	// Отстал от мира: отсчет от текущего тика
	ai.Wait(500, TimeCostMove)
	assert.Equal(t, 600, ai.NextActionTick)
	assert.False(t, ai.IsReady(550))
	assert.True(t, ai.IsReady(600))

	// Уже запланирован в будущем: задержка копится
	ai.Wait(550, TimeCostWait)
	assert.Equal(t, 650, ai.NextActionTick)
}
