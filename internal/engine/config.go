package engine

import (
	"time"

	"github.com/kosmonet/neon-sub001/internal/domain"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него будут зависеть все уровни.
	// Level N Seed = MasterSeed + N
	Seed    int64
	ShardId uint8

	// Worlds - число уровней подземелья. Поверхность (уровень 0) создается всегда.
	Worlds int
	// TickInterval - реальное время между тиками симуляции
	TickInterval time.Duration
	// PointFill - вместимость листа индекса сущностей
	PointFill int
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:         time.Now().UnixNano(),
		ShardId:      0,
		Worlds:       2,
		TickInterval: 250 * time.Millisecond,
		PointFill:    domain.DefaultFill,
	}
}

// LevelSeed возвращает сид конкретного уровня
func (c Config) LevelSeed(level int) int64 {
	return c.Seed + int64(level)
}
