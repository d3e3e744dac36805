package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// Logger интерфейс для логирования паник. *logrus.Logger ему соответствует.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger func() Logger
}

func NewRecoveryHandler(l Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: func() Logger { return l }}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recover(name)
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recover(name string) {
	if r := recover(); r != nil {
		rh.logger().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("паника в горутине")
	}
}

// DefaultRecoveryHandler пишет в logger.Log. Логгер берётся при каждой панике,
// так как logger.Init заменяет его при старте.
var DefaultRecoveryHandler = &RecoveryHandler{logger: func() Logger { return logger.Log }}

func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}
