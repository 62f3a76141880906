package app

import (
	"fmt"
	"time"
)

// fpsSmoothing weights the newest frame interval in the running average.
const fpsSmoothing = 0.1

func (a *app) updateStats(renderTime time.Duration) {
	a.frames++
	a.lastRender = renderTime
}

// noteInterval folds the tick delta between two frames into the fps average.
func (a *app) noteInterval(deltaMillis uint64) {
	if deltaMillis == 0 {
		return
	}
	inst := 1000 / float64(deltaMillis)
	if a.fps == 0 {
		a.fps = inst
		return
	}
	a.fps += (inst - a.fps) * fpsSmoothing
}

func (a *app) hudLines(w, h int, angle float64) []string {
	return []string{
		fmt.Sprintf("%dx%d  %.1fms", w, h, float64(a.lastRender.Microseconds())/1000),
		fmt.Sprintf("angle %.2f  fps %.0f", angle, a.fps),
		fmt.Sprintf("frame %d  workers %d", a.frames, a.r.Workers),
	}
}
