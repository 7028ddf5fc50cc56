// Package refresh paces the main loop at the screen refresh rate.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultRate is the refresh rate in Hz.
const DefaultRate = 60.0

// Clock ticks at a fixed rate. Ticks that nobody waits for are dropped, so
// a slow loop runs late instead of catching up in a burst.
type Clock struct {
	ticker clockwork.Ticker
	period time.Duration
}

// New starts a clock ticking at hz.
func New(clock clockwork.Clock, hz float64) (*Clock, error) {
	if hz <= 0 {
		return nil, fmt.Errorf("refresh: invalid rate %g Hz", hz)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	period := time.Duration(float64(time.Second) / hz)
	if period <= 0 {
		return nil, fmt.Errorf("refresh: rate %g Hz is too high", hz)
	}
	if actual := float64(time.Second) / float64(period); actual != hz {
		log.Debug().Float64("rate", hz).Float64("actual", actual).Msg("refresh rate approximated")
	}
	return &Clock{
		ticker: clock.NewTicker(period),
		period: period,
	}, nil
}

// Period is the time between ticks.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Wait blocks until the next tick.
func (c *Clock) Wait(ctx context.Context) error {
	select {
	case <-c.ticker.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop the clock.
func (c *Clock) Stop() {
	c.ticker.Stop()
}
