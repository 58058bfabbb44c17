package dungeon

import (
	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/domain"
)

// EntityTemplate определяет шаблон для создания сущности
type EntityTemplate struct {
	Name   string
	Type   enums.EntityType
	Render domain.RenderComponent
	// Wanders/Speed копируются в AIComponent; без Speed сущность неподвижна
	Wanders bool
	Speed   int
	Vision  int
}

// SpawnEntity создает сущность из шаблона на заданной позиции
func (t EntityTemplate) SpawnEntity(ids *types.IDAllocator, pos domain.Position) *domain.Entity {
	entity := &domain.Entity{
		ID:   ids.Next(t.Type),
		Type: t.Type,
		Name: t.Name,
		Pos:  pos,
		Render: &domain.RenderComponent{
			Symbol: t.Render.Symbol,
			Color:  t.Render.Color,
		},
	}

	if t.Speed > 0 {
		entity.AI = &domain.AIComponent{Wanders: t.Wanders, Speed: t.Speed}
	}
	if t.Vision > 0 {
		entity.Vision = &domain.VisionComponent{Radius: t.Vision}
	}

	return entity
}

// --- ВРАГИ ---

var Goblin = EntityTemplate{
	Name:    "Хитрый Гоблин",
	Type:    enums.EntityTypeMonster,
	Render:  domain.RenderComponent{Symbol: "g", Color: "#22C55E"},
	Wanders: true,
	Speed:   domain.TimeCostMove,
	Vision:  domain.VisionRadius,
}

var Orc = EntityTemplate{
	Name:    "Свирепый Орк",
	Type:    enums.EntityTypeMonster,
	Render:  domain.RenderComponent{Symbol: "O", Color: "#DC2626"},
	Wanders: true,
	Speed:   domain.TimeCostMove * 2,
	Vision:  domain.VisionRadius,
}

var Rat = EntityTemplate{
	Name:    "Крыса",
	Type:    enums.EntityTypeMonster,
	Render:  domain.RenderComponent{Symbol: "r", Color: "#A8A29E"},
	Wanders: true,
	Speed:   domain.TimeCostWait,
	Vision:  4,
}

// --- ПОВЕРХНОСТЬ ---

var Villager = EntityTemplate{
	Name:    "Житель",
	Type:    enums.EntityTypeNPC,
	Render:  domain.RenderComponent{Symbol: "v", Color: "#FBBF24"},
	Wanders: true,
	Speed:   domain.TimeCostMove * 3,
	Vision:  domain.VisionRadius,
}

// --- ВЫХОДЫ ---

var ExitUp = EntityTemplate{
	Name:   "Лестница вверх",
	Type:   enums.EntityTypeExit,
	Render: domain.RenderComponent{Symbol: "<", Color: "#FFFFFF"},
}

var ExitDown = EntityTemplate{
	Name:   "Лестница вниз",
	Type:   enums.EntityTypeExit,
	Render: domain.RenderComponent{Symbol: ">", Color: "#FFFFFF"},
}

// EnemyTemplates - реестр врагов для LevelBuilder.SpawnEnemy
var EnemyTemplates = map[string]EntityTemplate{
	"goblin": Goblin,
	"orc":    Orc,
	"rat":    Rat,
}
