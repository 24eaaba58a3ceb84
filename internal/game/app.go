package game

import (
	"context"
	"log"
	"time"

	"voxelworld/internal/profiling"
)

// slowTick is the processing time above which a tick gets logged.
const slowTick = 16 * time.Millisecond

// App runs a Session at the configured tick rate.
type App struct {
	session *Session
	limiter *TickLimiter

	// OnTick, if set, runs after every step with the tick number.
	OnTick func(tick int, s *Session)

	lastTime time.Time
}

func NewApp(s *Session) *App {
	return &App{
		session: s,
		limiter: NewTickLimiter(s.Config.Loop.TickRateHz),
	}
}

// Run ticks until ctx is done or, when ticks > 0, that many ticks have run.
// It returns the number of ticks executed.
func (a *App) Run(ctx context.Context, ticks int) int {
	a.lastTime = time.Now()
	n := 0
	for ticks <= 0 || n < ticks {
		if ctx.Err() != nil {
			break
		}
		a.tick(n)
		n++
		a.limiter.Wait()
	}
	return n
}

func (a *App) tick(n int) {
	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	a.session.Step(dt)
	if a.OnTick != nil {
		a.OnTick(n, a.session)
	}

	if d := time.Since(start); d > slowTick {
		log.Printf("Slow tick %d: %v. Top tasks: %s", n, d, profiling.TopN(5))
	}
}
