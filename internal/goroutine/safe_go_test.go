package goroutine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetOutput(io.Discard)
	rh := NewRecoveryHandler(log)

	done := make(chan struct{})
	rh.SafeGo("worker", func() {
		defer close(done)
		panic("boom")
	})
	<-done

	require.Eventually(t, func() bool { return len(hook.AllEntries()) == 1 }, time.Second, 5*time.Millisecond)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "worker", entry.Data["goroutine"])
	assert.Equal(t, "boom", entry.Data["panic"])
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	rh := NewRecoveryHandler(log)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	got := make(chan any, 1)
	rh.SafeGoWithContext(ctx, "ctx", func(ctx context.Context) {
		got <- ctx.Value(key{})
	})

	assert.Equal(t, "value", <-got)
}
