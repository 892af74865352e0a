package app

import "time"

// Tick reports the fraction of a round left at now and whether the round is still running.
func Tick(now, start time.Time, duration time.Duration) (float64, bool) {
	if start.IsZero() || duration <= 0 {
		return 0, false
	}
	remaining := float64(start.Add(duration).Sub(now)) / float64(duration)
	if remaining <= 0 {
		return 0, false
	}
	if remaining > 1 {
		remaining = 1
	}
	return remaining, true
}
