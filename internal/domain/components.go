package domain

// RenderComponent - визуализация для отладочного клиента
type RenderComponent struct {
	Symbol string `json:"symbol"` // g-гоблин, @-игрок
	Color  string `json:"color"`
}

// AIComponent - поведение и время
type AIComponent struct {
	Wanders        bool `json:"wanders"`        // Бродит по карте случайно
	NextActionTick int  `json:"nextActionTick"` // Тик следующего хода
	Speed          int  `json:"speed"`          // Тиков между ходами
}

// VisionComponent - настройки зрения
type VisionComponent struct {
	Radius     int  `json:"radius"`
	Omniscient bool `json:"omniscient"` // Всеведение
}
