package sparks

import (
	"time"
)

// Time is the frame clock. Elapsed sums every Dt since the first frame.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64

	fixed time.Duration
}

// TimeModule installs the frame clock. With a positive FixedStep every frame
// advances the clock by exactly that much instead of the wall time.
type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:  time.Now(),
		fixed: mod.FixedStep,
	})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	var now time.Time
	if timeResource.fixed > 0 {
		now = timeResource.Time.Add(timeResource.fixed)
	} else {
		now = time.Now()
	}

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Elapsed += timeResource.Dt
	timeResource.Frame++
}
