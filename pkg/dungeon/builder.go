package dungeon

import (
	"fmt"
	"math/rand"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// elevationPatch - прямоугольник с одной высотой
type elevationPatch struct {
	rect   spatial.Rect
	height int
}

// LevelBuilder предоставляет fluent API для создания уровней.
// Карта копится списком регионов и применяется к RegionTree только в Build.
type LevelBuilder struct {
	level  int
	width  int
	height int
	fill   int
	rng    *rand.Rand
	ids    *types.IDAllocator

	rooms []spatial.Rect
	// Слои применяются по порядку: база, комнаты, декор, коридоры.
	// Коридоры последние, чтобы декор не разрывал связность.
	base      []domain.RegionRecord
	floors    []domain.RegionRecord
	decor     []domain.RegionRecord
	corridors []domain.RegionRecord
	elevation []elevationPatch
	entities  []*domain.Entity
	start     *domain.Position
}

// NewLevel создает новый builder для уровня
func NewLevel(level int, rng *rand.Rand, ids *types.IDAllocator) *LevelBuilder {
	return &LevelBuilder{
		level:  level,
		width:  MapWidth,
		height: MapHeight,
		rng:    rng,
		ids:    ids,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// WithFill задает вместимость листа индекса сущностей
func (b *LevelBuilder) WithFill(fill int) *LevelBuilder {
	b.fill = fill
	return b
}

// WithBase заливает всю карту одним типом поверхности
func (b *LevelBuilder) WithBase(t domain.Terrain) *LevelBuilder {
	b.base = append(b.base, record(t, spatial.Rect{W: b.width, H: b.height}))
	return b
}

// WithRegion добавляет произвольную область (поверх комнат, но под коридорами)
func (b *LevelBuilder) WithRegion(r spatial.Rect, t domain.Terrain) *LevelBuilder {
	b.decor = append(b.decor, record(t, r))
	return b
}

// WithElevation поднимает прямоугольник на заданную высоту
func (b *LevelBuilder) WithElevation(r spatial.Rect, height int) *LevelBuilder {
	b.elevation = append(b.elevation, elevationPatch{rect: r, height: height})
	return b
}

// WithRooms генерирует комнаты и коридоры
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	b.rooms = make([]spatial.Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinSize, MaxSize)
		h := b.randRange(MinSize, MaxSize)
		x := b.randRange(1, b.width-w-1)
		y := b.randRange(1, b.height-h-1)

		newRoom := spatial.Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if roomsTouch(newRoom, other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		b.floors = append(b.floors, record(domain.TerrainFloor, roomInterior(newRoom)))

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prevX, prevY := center(b.rooms[len(b.rooms)-1])
			currX, currY := center(newRoom)

			if b.rng.Intn(2) == 0 {
				b.hCorridor(prevX, currX, prevY)
				b.vCorridor(prevY, currY, currX)
			} else {
				b.vCorridor(prevY, currY, prevX)
				b.hCorridor(prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	return b
}

// WithPools кладет лужу в дальний угол больших комнат
func (b *LevelBuilder) WithPools(chance float64) *LevelBuilder {
	for _, room := range b.rooms {
		if room.W < PoolRoomSize || room.H < PoolRoomSize || b.rng.Float64() >= chance {
			continue
		}
		pool := spatial.Rect{X: room.X + room.W - 3, Y: room.Y + room.H - 3, W: 2, H: 2}
		b.decor = append(b.decor, record(domain.TerrainWater, pool))
	}
	return b
}

// WithTerraces поднимает часть комнат (кроме первой) на одну ступень
func (b *LevelBuilder) WithTerraces() *LevelBuilder {
	for i := 1; i < len(b.rooms); i++ {
		if h := b.rng.Intn(domain.MaxClimb + 1); h > 0 {
			b.elevation = append(b.elevation, elevationPatch{rect: roomInterior(b.rooms[i]), height: h})
		}
	}
	return b
}

// SpawnEnemy спавнит врага из шаблона
func (b *LevelBuilder) SpawnEnemy(templateName string, count int) *LevelBuilder {
	template, ok := EnemyTemplates[templateName]
	if !ok {
		logger.Log.WithFields(logrus.Fields{
			"component": "dungeon",
			"template":  templateName,
		}).Warn("Unknown enemy template")
		return b
	}

	// Спавним в случайных комнатах (кроме первой)
	for i := 0; i < count && len(b.rooms) > 1; i++ {
		roomIdx := b.rng.Intn(len(b.rooms)-1) + 1
		cx, cy := center(b.rooms[roomIdx])

		pos := domain.Position{
			X: cx + b.randRange(-1, 1),
			Y: cy + b.randRange(-1, 1),
		}
		b.entities = append(b.entities, template.SpawnEntity(b.ids, pos))
	}

	return b
}

// Spawn ставит сущность из шаблона на случайную проходимую клетку области.
// Если за 20 попыток места не нашлось, сущность пропускается.
func (b *LevelBuilder) Spawn(template EntityTemplate, area spatial.Rect, count int) *LevelBuilder {
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < 20; attempt++ {
			x := area.X + b.rng.Intn(area.W)
			y := area.Y + b.rng.Intn(area.H)
			if b.terrainAt(x, y).Walkable() {
				b.entities = append(b.entities, template.SpawnEntity(b.ids, domain.Position{X: x, Y: y}))
				break
			}
		}
	}
	return b
}

// PlaceEntity ставит сущность из шаблона в конкретную клетку
func (b *LevelBuilder) PlaceEntity(template EntityTemplate, pos domain.Position) *LevelBuilder {
	b.entities = append(b.entities, template.SpawnEntity(b.ids, pos))
	return b
}

// WithEntity добавляет готовую сущность
func (b *LevelBuilder) WithEntity(e *domain.Entity) *LevelBuilder {
	b.entities = append(b.entities, e)
	return b
}

// PlaceExit размещает лестницу: "up" в первой комнате, иначе в последней
func (b *LevelBuilder) PlaceExit(direction string) *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}

	room, template := b.rooms[len(b.rooms)-1], ExitDown
	if direction == "up" {
		room, template = b.rooms[0], ExitUp
	}

	cx, cy := center(room)
	return b.PlaceEntity(template, domain.Position{X: cx, Y: cy})
}

// WithStart фиксирует стартовую позицию
func (b *LevelBuilder) WithStart(pos domain.Position) *LevelBuilder {
	b.start = &pos
	return b
}

// GetStartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) GetStartPos() domain.Position {
	if b.start != nil {
		return *b.start
	}
	if len(b.rooms) > 0 {
		cx, cy := center(b.rooms[0])
		return domain.Position{X: cx, Y: cy}
	}
	return domain.Position{X: b.width / 2, Y: b.height / 2}
}

// Rooms возвращает сгенерированные комнаты
func (b *LevelBuilder) Rooms() []spatial.Rect {
	return b.rooms
}

// Records возвращает все регионы поверхности в порядке применения
func (b *LevelBuilder) Records() []domain.RegionRecord {
	out := make([]domain.RegionRecord, 0, len(b.base)+len(b.floors)+len(b.decor)+len(b.corridors))
	out = append(out, b.base...)
	out = append(out, b.floors...)
	out = append(out, b.decor...)
	out = append(out, b.corridors...)
	return out
}

// Build собирает и возвращает готовый мир
func (b *LevelBuilder) Build() (*domain.GameWorld, domain.Position, error) {
	world := domain.NewGameWorld(b.level, b.width, b.height, b.fill)

	records := b.Records()
	if err := world.LoadTerrain(records); err != nil {
		return nil, domain.Position{}, fmt.Errorf("level %d terrain: %w", b.level, err)
	}
	for _, p := range b.elevation {
		world.SetElevation(p.rect, p.height)
	}
	for _, e := range b.entities {
		if err := world.AddEntity(e); err != nil {
			return nil, domain.Position{}, fmt.Errorf("level %d spawn: %w", b.level, err)
		}
	}

	stats := world.Terrain.Stats()
	logger.Log.WithFields(logrus.Fields{
		"component":      "dungeon",
		"level":          b.level,
		"world_id":       world.ID,
		"rooms":          len(b.rooms),
		"records":        len(records),
		"terrain_leaves": stats.Leaves,
		"entities":       len(b.entities),
	}).Info("Level built")

	return world, b.GetStartPos(), nil
}

// --- Helper functions ---

// terrainAt ищет последний регион, накрывающий клетку (как это сделает LoadTerrain)
func (b *LevelBuilder) terrainAt(x, y int) domain.Terrain {
	records := b.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Rect().ContainsPoint(spatial.Point{X: x, Y: y}) {
			return domain.Terrain(records[i].ID)
		}
	}
	return domain.TerrainStone
}

func (b *LevelBuilder) hCorridor(x1, x2, y int) {
	start, end := min(x1, x2), max(x1, x2)
	b.corridors = append(b.corridors, record(domain.TerrainFloor, spatial.Rect{X: start, Y: y, W: end - start + 1, H: 1}))
}

func (b *LevelBuilder) vCorridor(y1, y2, x int) {
	start, end := min(y1, y2), max(y1, y2)
	b.corridors = append(b.corridors, record(domain.TerrainFloor, spatial.Rect{X: x, Y: start, W: 1, H: end - start + 1}))
}

func (b *LevelBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}

func record(t domain.Terrain, r spatial.Rect) domain.RegionRecord {
	return domain.RegionRecord{ID: string(t), X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func center(r spatial.Rect) (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// roomInterior - пол комнаты; левая и верхняя кромки остаются стеной
func roomInterior(r spatial.Rect) spatial.Rect {
	return spatial.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 1, H: r.H - 1}
}

// roomsTouch: комнаты пересекаются или соприкасаются
func roomsTouch(a, b spatial.Rect) bool {
	a.W++
	a.H++
	b.W++
	b.H++
	return a.Intersects(b)
}
