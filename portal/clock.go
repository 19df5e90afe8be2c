package portal

import (
	"context"
	"math"
	"time"

	"github.com/feltops/clubportal/api"
)

// Clock derives the tournament display timer from the three server-owned
// fields. The server does all bookkeeping; this only renders it.
type Clock struct {
	StartedAt          time.Time
	TotalPausedSeconds int64
	PausedAt           *time.Time
}

func ClockFromSession(sess *api.Session) Clock {
	if sess == nil {
		return Clock{}
	}
	return Clock{
		StartedAt:          sess.StartedAt,
		TotalPausedSeconds: sess.TotalPausedSeconds,
		PausedAt:           sess.PausedAt,
	}
}

// ElapsedSeconds is floor(now − started) − totalPaused, frozen at the pause
// timestamp while paused, and never negative.
func (c Clock) ElapsedSeconds(now time.Time) int64 {
	if c.StartedAt.IsZero() {
		return 0
	}
	end := now
	if c.PausedAt != nil {
		end = *c.PausedAt
	}
	elapsed := int64(math.Floor(end.Sub(c.StartedAt).Seconds())) - c.TotalPausedSeconds
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Paused reports whether the clock is frozen.
func (c Clock) Paused() bool { return c.PausedAt != nil }

// Tick emits the displayed elapsed seconds once per second until ctx is
// done. While paused the emitted value stays frozen.
func (c Clock) Tick(ctx context.Context, nowTime func() time.Time) <-chan int64 {
	out := make(chan int64, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- c.ElapsedSeconds(nowTime()):
				default:
				}
			}
		}
	}()
	return out
}
