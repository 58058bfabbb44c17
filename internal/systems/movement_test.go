package systems

import (
	"testing"

	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMove(t *testing.T) {
	world := createTestWorld(10, 10)
	setWall(world, 5, 5)

	actor := spawn(t, world, 1, enums.EntityTypePlayer, 4, 5)

	// Test 1: Move into empty space
	res := CalculateMove(actor, 0, -1, world) // Move Up (from 4,5 to 4,4)
	if !res.HasMoved {
		t.Error("Expected move to succeed")
	}
	if res.NewX != 4 || res.NewY != 4 {
		t.Errorf("Expected pos (4,4), got (%d,%d)", res.NewX, res.NewY)
	}

	// Test 2: Move into wall
	res = CalculateMove(actor, 1, 0, world) // Move Right (from 4,5 to 5,5 - WALL)
	if res.HasMoved {
		t.Error("Expected move to fail (wall)")
	}
	if !res.IsWall {
		t.Error("Expected IsWall=true")
	}

	// Test 3: Move OOB
	if err := world.UpdateEntityPos(actor, 0, 0); err != nil {
		t.Fatal(err)
	}
	res = CalculateMove(actor, -1, 0, world)
	if res.HasMoved {
		t.Error("Expected move to fail (OOB)")
	}
	if !res.IsWall {
		t.Error("Expected IsWall=true for map edge")
	}
}

func TestCalculateMove_Entities(t *testing.T) {
	world := createTestWorld(6, 6)
	hero := spawn(t, world, 1, enums.EntityTypePlayer, 2, 2)
	orc := spawn(t, world, 2, enums.EntityTypeMonster, 3, 2)
	spawn(t, world, 3, enums.EntityTypeItem, 2, 3)

	res := CalculateMove(hero, 1, 0, world)
	assert.False(t, res.HasMoved)
	assert.Same(t, orc, res.BlockedBy)

	// Предметы не мешают
	res = CalculateMove(hero, 0, 1, world)
	assert.True(t, res.HasMoved)
	assert.Nil(t, res.BlockedBy)
}

func TestCalculateMove_Cliff(t *testing.T) {
	world := createTestWorld(6, 6)
	world.SetElevation(spatial.Rect{X: 3, Y: 0, W: 3, H: 6}, domain.MaxClimb+1)
	world.SetElevation(spatial.Rect{X: 0, Y: 3, W: 3, H: 3}, domain.MaxClimb)

	hero := spawn(t, world, 1, enums.EntityTypePlayer, 2, 2)

	res := CalculateMove(hero, 1, 0, world)
	assert.False(t, res.HasMoved)
	assert.True(t, res.IsCliff)

	// Подъём на MaxClimb разрешён
	res = CalculateMove(hero, 0, 1, world)
	assert.True(t, res.HasMoved)
}
