package sparks

import (
	"time"
)

// FrameStats is the rolling frame counter StatsModule reports from.
type FrameStats struct {
	Interval time.Duration
	FPS      float64
	Reports  int

	frames int
	since  time.Time
	now    func() time.Time
}

// StatsModule logs frames per second and the live particle count every Interval.
type StatsModule struct {
	Interval time.Duration
}

func (mod StatsModule) Install(app *App, cmd *Commands) {
	interval := mod.Interval
	if interval <= 0 {
		interval = time.Second
	}
	cmd.AddResources(&FrameStats{Interval: interval, now: time.Now})
	if !app.HasStage(Report) {
		app.UseStage(Report, AfterStage(PostUpdate))
	}
	app.UseSystem(System(func(stats *FrameStats, log Logger) {
		world, _ := Resource[ParticleWorld](app)
		if statsSystem(stats, world, log) && log.DebugEnabled() {
			if profiler, ok := Resource[Profiler](app); ok {
				log.Debugf("%s", profiler)
			}
		}
	}).InStage(Report))
}

// statsSystem reports whether it logged this frame.
func statsSystem(stats *FrameStats, world *ParticleWorld, log Logger) bool {
	now := stats.now()
	if stats.since.IsZero() {
		stats.since = now
	}
	stats.frames++

	elapsed := now.Sub(stats.since)
	if elapsed < stats.Interval {
		return false
	}
	stats.FPS = float64(stats.frames) / elapsed.Seconds()
	stats.Reports++
	stats.frames = 0
	stats.since = now

	if world == nil {
		log.Infof("%.1f fps", stats.FPS)
		return true
	}
	log.Infof("%.1f fps, %d systems, %d particles alive", stats.FPS, world.Len(), world.Alive())
	return true
}
