package sparks

import (
	"testing"
	"time"

	"github.com/gekko3d/sparks/particlert/rt/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestStatsSystem_ReportsEveryInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	stats := &FrameStats{Interval: time.Second, now: clock.Now}
	rec := &recordingLogger{}

	ps, err := NewParticleSystem(10, WithKernel(kernel.Donut))
	require.NoError(t, err)
	world := NewParticleWorld()
	world.Add(ps)

	for i := 0; i < 10; i++ {
		statsSystem(stats, world, rec)
		clock.now = clock.now.Add(100 * time.Millisecond)
	}
	assert.Empty(t, rec.Lines())

	statsSystem(stats, world, rec)
	require.Len(t, rec.Lines(), 1)
	assert.Equal(t, 1, stats.Reports)
	assert.InDelta(t, 11.0, stats.FPS, 1e-9)
	assert.Equal(t, "INFO 11.0 fps, 1 systems, 0 particles alive", rec.Lines()[0])
}

func TestStatsSystem_NoWorld(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	stats := &FrameStats{Interval: time.Second, now: clock.Now}
	rec := &recordingLogger{}

	statsSystem(stats, nil, rec)
	clock.now = clock.now.Add(2 * time.Second)
	statsSystem(stats, nil, rec)

	assert.Equal(t, []string{"INFO 1.0 fps"}, rec.Lines())
}

func TestStatsModule_DefaultInterval(t *testing.T) {
	app := NewAppBuilder().UseModule(StatsModule{}).Build()
	app.Step()

	stats, ok := Resource[FrameStats](app)
	require.True(t, ok)
	assert.Equal(t, time.Second, stats.Interval)
	assert.Equal(t, 0, stats.Reports)
}

func TestStatsModule_ReportStage(t *testing.T) {
	var order []string
	app := NewAppBuilder().UseModule(StatsModule{}).Build()
	app.UseSystem(System(func() { order = append(order, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { order = append(order, "report") }).InStage(Report))
	app.UseSystem(System(func() { order = append(order, "finale") }).InStage(Finale))

	require.True(t, app.HasStage(Report))
	app.Step()
	assert.Equal(t, []string{"post", "report", "finale"}, order)

	stats, ok := Resource[FrameStats](app)
	require.True(t, ok)
	stats.Interval = 0
	app.Step()
	assert.Equal(t, 1, stats.Reports, "stats system runs in the report stage")
}
