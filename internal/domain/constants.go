package domain

// Параметры восприятия
const (
	VisionRadius = 8
	AggroRadius  = 10
)

// MaxClimb - максимальный перепад высот, который можно преодолеть за один шаг
const MaxClimb = 1

// Стоимость действий в тиках
const (
	TimeCostMove = 100
	TimeCostWait = 50
)
