package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/metrics"
	"github.com/kosmonet/neon-sub001/internal/network"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/kosmonet/neon-sub001/internal/systems"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// TickStep - сколько игрового времени проходит за один тик
const TickStep = domain.TimeCostWait

// Instance представляет собой один изолированный запущенный уровень.
//
// Индексы мира не потокобезопасны, поэтому любой доступ к World идет
// через mu: симуляция берет запись, отладочный сервер и стрим - чтение.
type Instance struct {
	mu sync.RWMutex

	World       *domain.GameWorld
	TurnManager *TurnManager

	// Каналы коммуникации
	Hub *network.Broadcaster

	Rng  *rand.Rand // Локальный генератор
	Seed int64      // Сид, с которого начался уровень

	log *logrus.Entry
}

// TickReport - итог одного тика
type TickReport struct {
	Tick    int
	Moved   int
	Blocked int
	Waited  int
}

func NewInstance(world *domain.GameWorld, seed int64) *Instance {
	i := &Instance{
		World:       world,
		TurnManager: NewTurnManager(),
		Hub:         network.NewBroadcaster(),
		Rng:         rand.New(rand.NewSource(seed)),
		Seed:        seed,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "instance",
			"world_id":  world.ID,
			"level":     world.Level,
		}),
	}
	for _, e := range world.Entities() {
		i.TurnManager.AddEntity(e)
	}
	return i
}

func (i *Instance) ID() uuid.UUID {
	return i.World.ID
}

// Read выполняет fn под блокировкой чтения
func (i *Instance) Read(fn func(w *domain.GameWorld)) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	fn(i.World)
}

// Write выполняет fn под блокировкой записи
func (i *Instance) Write(fn func(w *domain.GameWorld)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fn(i.World)
}

// AddEntity добавляет сущность в мир и в очередь ходов
func (i *Instance) AddEntity(e *domain.Entity) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.World.AddEntity(e); err != nil {
		return err
	}
	i.TurnManager.AddEntity(e)
	return nil
}

// RemoveEntity убирает сущность из мира и из очереди ходов
func (i *Instance) RemoveEntity(id types.EntityID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.World.RemoveEntity(id); err != nil {
		return err
	}
	i.TurnManager.RemoveEntity(id)
	return nil
}

// Summary - сводка мира под блокировкой чтения
func (i *Instance) Summary() domain.WorldSummary {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.World.Summary()
}

// Snapshot - копии сущностей в области под блокировкой чтения
func (i *Instance) Snapshot(area spatial.Rect) domain.EntitySnapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.World.Snapshot(area)
}

// Queue - дамп очереди ходов
func (i *Instance) Queue() []QueueEntry {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.TurnManager.DebugDump()
}

// Step продвигает время на TickStep и отдает ход всем, чей тик наступил.
// Каждая сущность ходит не больше одного раза за тик.
func (i *Instance) Step() TickReport {
	start := time.Now()

	i.mu.Lock()
	w := i.World
	w.GlobalTick += TickStep
	report := TickReport{Tick: w.GlobalTick}

	for n := i.TurnManager.Len(); n > 0; n-- {
		item := i.TurnManager.PeekNext()
		if item == nil || !item.Value.AI.IsReady(w.GlobalTick) {
			break
		}
		switch i.processTurn(item.Value) {
		case metrics.OutcomeMoved:
			report.Moved++
		case metrics.OutcomeBlocked:
			report.Blocked++
		default:
			report.Waited++
		}
	}
	i.mu.Unlock()

	metrics.InstrumentTick(i.ID().String(), time.Since(start).Seconds())
	i.Hub.Broadcast(network.TickEvent{Tick: report.Tick})

	return report
}

// processTurn - ход одной сущности. Вызывается под блокировкой записи.
func (i *Instance) processTurn(e *domain.Entity) string {
	w := i.World
	outcome := metrics.OutcomeWait
	cost := domain.TimeCostWait

	dx, dy := systems.ComputeNPCAction(e, w, i.Rng)
	if dx != 0 || dy != 0 {
		res := systems.CalculateMove(e, dx, dy, w)
		if !res.HasMoved {
			outcome = metrics.OutcomeBlocked
		} else if err := w.UpdateEntityPos(e, res.NewX, res.NewY); err != nil {
			i.log.WithError(err).WithField("entity_id", e.ID).Error("Failed to move entity")
		} else {
			outcome = metrics.OutcomeMoved
			cost = max(e.AI.Speed, domain.TimeCostMove)
		}
	}

	e.AI.Wait(w.GlobalTick, cost)
	i.TurnManager.UpdatePriority(e.ID, e.AI.NextActionTick)
	metrics.InstrumentTurn(i.ID().String(), outcome)

	return outcome
}

// Run крутит тики, пока не отменят контекст
func (i *Instance) Run(ctx context.Context, interval time.Duration) {
	i.log.Info("Instance loop started")
	defer i.log.Info("Instance loop stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := i.Step()
			i.log.WithFields(logrus.Fields{
				"tick":    report.Tick,
				"moved":   report.Moved,
				"blocked": report.Blocked,
				"waited":  report.Waited,
			}).Trace("Tick processed")
		}
	}
}
