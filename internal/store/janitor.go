package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is anything holding entries that expire.
type Sweeper interface {
	Sweep() int
}

// RunJanitor sweeps every store on each tick until ctx is done.
func RunJanitor(ctx context.Context, interval time.Duration, log *zap.SugaredLogger, sweepers ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, s := range sweepers {
				removed += s.Sweep()
			}
			if removed > 0 {
				log.Debugw("janitor sweep", "removed", removed)
			}
		}
	}
}
