package systems

import (
	"math/rand"

	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ComputeNPCAction решает, куда шагнуть NPC. (0, 0) означает ожидание.
//
// Сначала ищем ближайшего игрока в радиусе агрессии запросом к индексу позиций;
// видимого игрока преследуем. Иначе бродим случайно, если AI это разрешает.
func ComputeNPCAction(npc *domain.Entity, w *domain.GameWorld, rng *rand.Rand) (dx, dy int) {
	if npc.AI == nil {
		return 0, 0
	}

	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"entity_id": npc.ID,
	})

	if target := nearestVisiblePlayer(npc, w); target != nil {
		dx, dy = calculateSmartMove(npc, target, w)
		aiLogger.WithFields(logrus.Fields{
			"target_id": target.ID,
			"dx":        dx,
			"dy":        dy,
		}).Debug("Chasing target")
		return dx, dy
	}

	if !npc.AI.Wanders {
		return 0, 0
	}

	// Случайный шаг в одну из 8 сторон; если клетка занята - стоим
	dx, dy = rng.Intn(3)-1, rng.Intn(3)-1
	if (dx == 0 && dy == 0) || !CalculateMove(npc, dx, dy, w).HasMoved {
		return 0, 0
	}
	return dx, dy
}

func nearestVisiblePlayer(npc *domain.Entity, w *domain.GameWorld) *domain.Entity {
	var best *domain.Entity
	bestDist := 0
	for _, e := range w.GetEntitiesIn(npc.Pos.Around(domain.AggroRadius)) {
		if e.Type != enums.EntityTypePlayer || e.ID == npc.ID {
			continue
		}
		d := npc.Pos.DistanceSquaredTo(e.Pos)
		if d > domain.AggroRadius*domain.AggroRadius {
			continue
		}
		if best != nil && d >= bestDist {
			continue
		}
		if HasLineOfSight(w, npc.Pos, e.Pos) {
			best, bestDist = e, d
		}
	}
	return best
}

// calculateSmartMove: сначала прямой шаг к цели, затем скольжение вдоль приоритетной оси
func calculateSmartMove(npc, target *domain.Entity, w *domain.GameWorld) (int, int) {
	if npc.Pos.IsAdjacent(target.Pos) {
		return 0, 0
	}

	dxRaw := target.Pos.X - npc.Pos.X
	dyRaw := target.Pos.Y - npc.Pos.Y
	stepX, stepY := npc.Pos.DirectionTo(target.Pos)

	if checkMove(npc, stepX, stepY, w) {
		return stepX, stepY
	}

	if abs(dxRaw) > abs(dyRaw) {
		if stepX != 0 && checkMove(npc, stepX, 0, w) {
			return stepX, 0
		}
		if stepY != 0 && checkMove(npc, 0, stepY, w) {
			return 0, stepY
		}
	} else {
		if stepY != 0 && checkMove(npc, 0, stepY, w) {
			return 0, stepY
		}
		if stepX != 0 && checkMove(npc, stepX, 0, w) {
			return stepX, 0
		}
	}

	return 0, 0 // Тупик
}

func checkMove(e *domain.Entity, dx, dy int, w *domain.GameWorld) bool {
	return CalculateMove(e, dx, dy, w).HasMoved
}
