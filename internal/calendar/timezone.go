package calendar

import "time"

// DefaultTimezone is the single zone the scheduler works in when none is configured.
const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	return time.UTC
}

// NowIn returns the current wall-clock instant in tz, truncated to seconds.
func NowIn(tz string) Instant {
	return InstantOf(time.Now().In(Location(tz)))
}
