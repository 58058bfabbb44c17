package api

import "errors"

// MaxViewArea - максимальная площадь области просмотра
const MaxViewArea = 256 * 256

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p AreaPayload) Validate() error {
	if p.W <= 0 || p.H <= 0 {
		return errors.New("area must have positive width and height")
	}
	// Деление вместо умножения: W*H может переполниться
	if p.W > MaxViewArea/p.H {
		return errors.New("area too large")
	}
	return nil
}

func (c ClientCommand) Validate() error {
	switch c.Action {
	case ActionView:
		if c.Area == nil {
			return errors.New("area is required")
		}
		return c.Area.Validate()
	case "":
		return errors.New("action is required")
	default:
		return errors.New("unknown action " + c.Action)
	}
}
