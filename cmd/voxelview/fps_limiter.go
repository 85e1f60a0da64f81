package main

import (
	"time"

	"searchit/internal/config"
)

// Frame cap while the window is in the background
const backgroundFPS = 30

// FPSLimiter paces frames to config.GetFPSLimit
type FPSLimiter struct {
	next time.Time
}

// Wait blocks until the next frame is due. It sleeps most of the interval
// and spins for the last 200µs.
func (f *FPSLimiter) Wait(background bool) {
	limit := config.GetFPSLimit()
	if background && (limit <= 0 || limit > backgroundFPS) {
		limit = backgroundFPS
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// Resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
