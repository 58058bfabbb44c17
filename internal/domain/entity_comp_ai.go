package domain

// Wait планирует следующий ход через ticks после текущего момента.
// Ход никогда не переносится в прошлое: сущность ходит не больше раза за тик.
func (a *AIComponent) Wait(globalTick, ticks int) {
	a.NextActionTick = max(a.NextActionTick, globalTick) + ticks
}

// IsReady проверяет, настал ли ход (относительно глобального времени)
func (a *AIComponent) IsReady(globalTick int) bool {
	return a.NextActionTick <= globalTick
}
