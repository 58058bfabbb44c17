package dungeon

import (
	"fmt"

	"github.com/kosmonet/neon-sub001/internal/core/types"
	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
	"github.com/kosmonet/neon-sub001/internal/domain"
)

// CreatePlayer создает исследователя. На отладочном сервере он бродит сам,
// чтобы монстрам было кого преследовать.
func CreatePlayer(ids *types.IDAllocator, pos domain.Position) *domain.Entity {
	p := EntityTemplate{
		Type: enums.EntityTypePlayer,
		Render: domain.RenderComponent{
			Symbol: "@",
			Color:  "#22D3EE",
		},
		Wanders: true,
		Speed:   domain.TimeCostMove,
		Vision:  domain.VisionRadius,
	}.SpawnEntity(ids, pos)

	p.Name = fmt.Sprintf("Герой %d", p.ID.Index())
	return p
}
