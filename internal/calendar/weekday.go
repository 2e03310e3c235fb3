package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is stored by its upper-case English name.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var byGoWeekday = [7]Weekday{
	time.Sunday:    Sunday,
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
}

// WeekdayOf derives the day of week from the proleptic Gregorian calendar.
// It never consults locale data.
func WeekdayOf(d Date) Weekday {
	return byGoWeekday[d.Time().Weekday()]
}

func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: day_of_week %q", ErrMalformedInput, s)
	}
	return w, nil
}

func (w Weekday) Valid() bool {
	for _, d := range byGoWeekday {
		if d == w {
			return true
		}
	}
	return false
}

func (w Weekday) String() string { return string(w) }
