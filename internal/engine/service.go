package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Service - реестр запущенных миров
type Service struct {
	Config Config

	mu        sync.RWMutex
	instances map[uuid.UUID]*Instance

	ids *types.IDAllocator
}

// NewService создает пустой реестр
func NewService(cfg Config) *Service {
	return &Service{
		Config:    cfg,
		instances: make(map[uuid.UUID]*Instance),
		ids:       types.NewIDAllocator(cfg.ShardId),
	}
}

// Bootstrap генерирует начальные миры по конфигу
func (s *Service) Bootstrap() error {
	worlds, err := buildInitialWorlds(s.Config, s.ids)
	if err != nil {
		return err
	}
	for _, w := range worlds {
		s.AddWorld(w)
	}
	return nil
}

// AddWorld регистрирует мир и возвращает его инстанс
func (s *Service) AddWorld(w *domain.GameWorld) *Instance {
	inst := NewInstance(w, s.Config.LevelSeed(w.Level))

	s.mu.Lock()
	s.instances[w.ID] = inst
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"world_id":  w.ID,
		"level":     w.Level,
		"entities":  len(w.Registry),
	}).Info("World registered")
	return inst
}

// Get ищет инстанс по ID
func (s *Service) Get(id uuid.UUID) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, id)
	}
	return inst, nil
}

// Lookup - то же, что Get, но по строковому ID из запроса
func (s *Service) Lookup(raw string) (*Instance, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBadWorldID, raw, err)
	}
	return s.Get(id)
}

// List возвращает инстансы, упорядоченные по уровню
func (s *Service) List() []*Instance {
	s.mu.RLock()
	out := make([]*Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Instance) int {
		if a.World.Level != b.World.Level {
			return a.World.Level - b.World.Level
		}
		return slices.Compare(a.World.ID[:], b.World.ID[:])
	})
	return out
}

// Summaries - сводки всех миров (источник для /debug/worlds и метрик)
func (s *Service) Summaries() []domain.WorldSummary {
	list := s.List()
	out := make([]domain.WorldSummary, 0, len(list))
	for _, inst := range list {
		out = append(out, inst.Summary())
	}
	return out
}

// Start запускает цикл каждого мира. Циклы останавливаются вместе с ctx.
func (s *Service) Start(ctx context.Context) *sync.WaitGroup {
	var wg sync.WaitGroup
	for _, inst := range s.List() {
		wg.Add(1)
		go func(inst *Instance) {
			defer wg.Done()
			inst.Run(ctx, s.Config.TickInterval)
		}(inst)
	}
	return &wg
}
