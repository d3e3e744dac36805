package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log доступен и до Init, чтобы тесты пакетов не падали на nil.
var Log = logrus.New()

// Init настраивает уровень и формат логов.
// В production пишем JSON, в остальных окружениях читаемый текст.
func Init(level, env string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	SetTextFormatter()
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Discard глушит вывод. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}
