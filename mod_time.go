package gekko

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// FrameCount counts completed frames. Systems running during frame k
// (0-based) observe Count == k; the counter wraps on overflow.
type FrameCount struct {
	Count uint32
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(
		&Time{
			Time: time.Now(),
			Dt:   0,
		},
		&FrameCount{},
	)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
	app.UseSystem(
		System(frameCountSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}

func frameCountSystem(frames *FrameCount) {
	frames.Count += 1
}
