package enums

import (
	"strconv"
	"strings"
)

// EntityType - тип сущности, упаковывается в EntityID
type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypePlayer
	EntityTypeNPC
	EntityTypeMonster
	EntityTypeItem
	EntityTypeExit
)

var entityTypeNames = [...]string{
	EntityTypeUnknown: "UNKNOWN",
	EntityTypePlayer:  "PLAYER",
	EntityTypeNPC:     "NPC",
	EntityTypeMonster: "MONSTER",
	EntityTypeItem:    "ITEM",
	EntityTypeExit:    "EXIT",
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityType) String() string {
	if int(e) < len(entityTypeNames) {
		return entityTypeNames[e]
	}
	return "UNKNOWN"
}

// Blocks сообщает, занимает ли сущность такого типа клетку целиком
func (e EntityType) Blocks() bool {
	return e == EntityTypePlayer || e == EntityTypeNPC || e == EntityTypeMonster
}

// ParseEntityType конвертирует строку в enum (для спавн-таблиц и отладочных запросов)
func ParseEntityType(s string) EntityType {
	upper := strings.ToUpper(s)
	for i, name := range entityTypeNames {
		if name == upper {
			return EntityType(i)
		}
	}
	return EntityTypeUnknown
}

func (e EntityType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}
