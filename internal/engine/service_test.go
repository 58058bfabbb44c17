package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := NewConfig()
	cfg.Seed = 42
	cfg.Worlds = 2
	cfg.TickInterval = time.Millisecond
	cfg.PointFill = 4
	return cfg
}

func TestService_Bootstrap(t *testing.T) {
	s := NewService(testConfig())
	require.NoError(t, s.Bootstrap())

	list := s.List()
	require.Len(t, list, 3)
	for level, inst := range list {
		assert.Equal(t, level, inst.World.Level)
		got, err := s.Get(inst.ID())
		require.NoError(t, err)
		assert.Same(t, inst, got)
	}

	got, err := s.Lookup(list[1].ID().String())
	require.NoError(t, err)
	assert.Same(t, list[1], got)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrWorldNotFound)

	_, err = s.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, ErrBadWorldID)

	summaries := s.Summaries()
	require.Len(t, summaries, 3)
	for _, sum := range summaries {
		assert.Positive(t, sum.EntityCount)
		assert.Equal(t, sum.EntityCount, sum.Entities.Elements)
	}
}

func TestService_Deterministic(t *testing.T) {
	a := NewService(testConfig())
	b := NewService(testConfig())
	require.NoError(t, a.Bootstrap())
	require.NoError(t, b.Bootstrap())

	la, lb := a.List(), b.List()
	require.Equal(t, len(la), len(lb))
	for i := range la {
		// ID миров случайны, карта и сущности - нет
		assert.Equal(t, la[i].World.TerrainRecords(), lb[i].World.TerrainRecords())
		assert.Equal(t, len(la[i].World.Registry), len(lb[i].World.Registry))
	}
}

func TestService_Start(t *testing.T) {
	s := NewService(testConfig())
	require.NoError(t, s.Bootstrap())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Start(ctx).Wait()

	for _, sum := range s.Summaries() {
		assert.Positive(t, sum.Tick, "level %d", sum.Level)
	}
}
