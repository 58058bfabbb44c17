package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init работает с настройками logrus по умолчанию (info, stderr),
// поэтому библиотечный код (деревья, системы) может логировать и в тестах.
var Log = logrus.New()

// Init настраивает глобальный логгер из окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput - то же, что Init, но с явным приёмником логов (удобно для тестов)
func InitWithOutput(out io.Writer) {
	// 1. Уровень логирования из LOG_LEVEL. По умолчанию - "info", для отладки - "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// WithComponent возвращает запись с полем component, как принято во всех системах
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
