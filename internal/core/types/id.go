package types

import (
	"fmt"
	"strconv"

	"github.com/kosmonet/neon-sub001/internal/core/types/enums"
)

// EntityID - 64-битный идентификатор сущности на карте.
//
// EntityID является value-type: его дёшево копировать, сравнивать и использовать
// как ключ индекса позиций (spatial.PointTree) и реестра сущностей.
//
// Формат битов (от старших к младшим):
//
//	[ Shard (8) | Type (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Shard - идентификатор сервера
//   - Type - enums.EntityType
//   - Generation - версия слота (защита от устаревших ссылок)
//   - Index - порядковый номер сущности в шарде
type EntityID uint64

// NilEntityID - нулевой идентификатор (сущность отсутствует)
const NilEntityID EntityID = 0

// Конфигурация битов EntityID
const (
	bitsIndex = 32
	bitsGen   = 16
	bitsType  = 8
	bitsShard = 8

	shiftGen   = bitsIndex
	shiftType  = bitsIndex + bitsGen
	shiftShard = bitsIndex + bitsGen + bitsType

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskType  = (1 << bitsType) - 1
	maskShard = (1 << bitsShard) - 1
)

// PackEntityID собирает EntityID из составных частей.
// Проверок диапазонов нет: лишние старшие биты отбрасываются типами аргументов.
func PackEntityID(
	shardID uint8,
	kind enums.EntityType,
	gen uint16,
	index uint32,
) EntityID {
	return EntityID(
		(uint64(shardID) << shiftShard) |
			(uint64(kind) << shiftType) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

func (id EntityID) Kind() enums.EntityType {
	return enums.EntityType((id >> shiftType) & maskType)
}

func (id EntityID) Shard() uint8 {
	return uint8((id >> shiftShard) & maskShard)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// NextGeneration возвращает тот же слот со следующим поколением
// (используется при повторном использовании индекса после удаления сущности)
func (id EntityID) NextGeneration() EntityID {
	return PackEntityID(id.Shard(), id.Kind(), id.Generation()+1, id.Index())
}

// String - человекочитаемый вид для логов
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[shard=%d %s gen=%d idx=%d]", id.Shard(), id.Kind(), id.Generation(), id.Index())
}

// MarshalJSON сериализует EntityID строкой: JavaScript теряет точность на uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает как строковое, так и числовое представление
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(v)
	return nil
}

// IDAllocator выдаёт последовательные EntityID в пределах одного шарда.
// Индекс 0 не выдаётся, чтобы ни один ID не совпал с NilEntityID.
// Не потокобезопасен: принадлежит тому, кто строит или ведёт карту.
type IDAllocator struct {
	shard uint8
	next  uint32
}

func NewIDAllocator(shard uint8) *IDAllocator {
	return &IDAllocator{shard: shard}
}

// Next выдаёт новый ID для сущности указанного типа
func (a *IDAllocator) Next(kind enums.EntityType) EntityID {
	a.next++
	return PackEntityID(a.shard, kind, 0, a.next)
}
