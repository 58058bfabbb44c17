package systems

import (
	"github.com/kosmonet/neon-sub001/internal/domain"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	NewX, NewY int
	HasMoved   bool
	BlockedBy  *domain.Entity // Если врезались в кого-то (для атаки)
	IsWall     bool           // Непроходимая поверхность или край карты
	IsCliff    bool           // Слишком большой перепад высот
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
// Поверхность и высоты читаются из RegionTree карты, занятость клетки - из индекса позиций.
func CalculateMove(e *domain.Entity, dx, dy int, w *domain.GameWorld) MovementResult {
	targetPos := e.Pos.Shift(dx, dy)
	res := MovementResult{NewX: targetPos.X, NewY: targetPos.Y}

	// 1. Границы и поверхность
	if !w.IsWalkable(targetPos.X, targetPos.Y) {
		res.IsWall = true
		return res
	}

	// 2. Перепад высот
	if abs(w.ElevationAt(targetPos.X, targetPos.Y)-w.ElevationAt(e.Pos.X, e.Pos.Y)) > domain.MaxClimb {
		res.IsCliff = true
		return res
	}

	// 3. Сущности в целевой клетке.
	// Блокируют только «телесные» (игроки, NPC, монстры); предметы и выходы проходимы.
	for _, other := range w.GetEntitiesAt(targetPos.X, targetPos.Y) {
		if other.ID == e.ID {
			continue
		}
		if other.Blocks() {
			res.BlockedBy = other
			return res
		}
	}

	res.HasMoved = true
	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
