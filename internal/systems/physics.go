package systems

import (
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Алгоритм Брезенхэма (только целочисленная арифметика); стартовая и конечная клетки
// не проверяются, поэтому стену можно «видеть», стоя рядом с ней.
func HasLineOfSight(w *domain.GameWorld, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := p1.DirectionTo(p2)
	err := dx - dy

	for {
		isEndpoint := (x0 == p1.X && y0 == p1.Y) || (x0 == p2.X && y0 == p2.Y)
		if !isEndpoint && w.BlocksSight(x0, y0) {
			losLogger.WithField("blocking_point", domain.Position{X: x0, Y: y0}).
				Debug("Line of sight blocked")
			return false
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}

	return true
}
