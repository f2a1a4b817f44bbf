// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately and then on every interval tick, sending each
// result on out. Cycles never overlap: a slow consumer delays the next poll
// and missed ticks are dropped by the ticker.
// Run returns when ctx is done; it does not close out.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for p.emit(ctx, out) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan<- PollResult) bool {
	res := p.PollOnce()
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		if p.log != nil {
			p.log.Debug().Str("sensor", p.cfg.Name).Msg("poller stopped")
		}
		return false
	}
}
