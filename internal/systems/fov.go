package systems

import (
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeVisibleTiles возвращает мапу индексов {index: true}, которые видны.
// nil означает «видно всё» (всевидящий наблюдатель).
func ComputeVisibleTiles(w *domain.GameWorld, pos domain.Position, vision *domain.VisionComponent) map[int]bool {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": pos,
	})

	if vision != nil && vision.Omniscient {
		return nil
	}

	radius := domain.VisionRadius
	if vision != nil {
		radius = vision.Radius
	}

	visibleMap := make(map[int]bool)
	if radius <= 0 {
		fovLogger.Warn("FOV calculation skipped for blind observer (radius <= 0).")
		return visibleMap
	}

	if w.InBounds(pos.X, pos.Y) {
		visibleMap[w.GetIndex(pos.X, pos.Y)] = true
	}

	// Рекурсивный shadowcasting для 8 октантов
	for i := 0; i < 8; i++ {
		castLight(w, pos.X, pos.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visibleMap)
	}

	fovLogger.WithFields(logrus.Fields{
		"radius":        radius,
		"visible_tiles": len(visibleMap),
	}).Debug("FOV calculation complete.")

	return visibleMap
}

func castLight(w *domain.GameWorld, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visibleMap map[int]bool) {
	if start < end {
		return
	}

	radiusSq := radius * radius

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy

			if w.InBounds(X, Y) && dx*dx+dy*dy < radiusSq {
				visibleMap[w.GetIndex(X, Y)] = true
			}

			if blocked {
				if w.BlocksSight(X, Y) {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if w.BlocksSight(X, Y) && j < radius {
				blocked = true
				castLight(w, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visibleMap)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// VisibleEntities возвращает сущности, которые видит наблюдатель.
// Кандидаты берутся запросом к индексу позиций по квадрату радиуса зрения,
// затем отсекаются картой видимости.
func VisibleEntities(w *domain.GameWorld, observer *domain.Entity) []*domain.Entity {
	radius := domain.VisionRadius
	if observer.Vision != nil {
		radius = observer.Vision.Radius
	}

	visible := ComputeVisibleTiles(w, observer.Pos, observer.Vision)
	candidates := w.GetEntitiesIn(observer.Pos.Around(radius))
	if visible == nil {
		// Всевидящий: видит всех на карте
		candidates = w.Entities()
	}

	out := make([]*domain.Entity, 0, len(candidates))
	for _, e := range candidates {
		if e.ID == observer.ID {
			continue
		}
		if visible == nil || (w.InBounds(e.Pos.X, e.Pos.Y) && visible[w.GetIndex(e.Pos.X, e.Pos.Y)]) {
			out = append(out, e)
		}
	}
	return out
}
