package sampler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/models"
)

// Subscription is a handle to a running watch. Stop must be called when the
// consuming view loses focus; leaking the subscription keeps sampling (and
// unlock evaluation) alive against a stale project context.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the watch and waits for the delivery goroutine to exit.
// Safe to call more than once.
func (s *Subscription) Stop() {
	s.once.Do(s.cancel)
	<-s.done
}

// Watch samples the given Sampler every interval and pushes each fix into
// fn. Delivery is sequential: a slow fn delays the next sample rather than
// overlapping it. The first fix is delivered immediately. Fix errors are
// logged and skipped; the watch keeps running until ctx is cancelled or
// Stop is called.
func Watch(ctx context.Context, s Sampler, interval time.Duration, log *zap.Logger, fn func(models.Coordinate)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	deliver := func() {
		fix, err := s.Current(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("location fix failed", zap.Error(err))
			}
			return
		}
		fn(fix)
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(sub.done)
		defer ticker.Stop()
		deliver()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deliver()
			}
		}
	}()
	return sub
}
