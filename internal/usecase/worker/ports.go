package worker

import (
	"context"
	"time"
)

// FeedInvalidator сбрасывает закэшированную ленту после изменения оценок.
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context)
}

type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
