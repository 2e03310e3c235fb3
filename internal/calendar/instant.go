package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

const InstantLayout = "2006-01-02T15:04:05"

// Instant is a (date, time of day) pair in the scheduler's zone.
type Instant struct {
	Date Date
	Time TimeOfDay
}

func InstantOf(t time.Time) Instant {
	return Instant{Date: DateOf(t), Time: TimeOfDayOf(t)}
}

func ParseInstant(s string) (Instant, error) {
	t, err := time.Parse(InstantLayout, s)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: instant %q, expected YYYY-MM-DDTHH:MM:SS", ErrMalformedInput, s)
	}
	return InstantOf(t), nil
}

func (i Instant) Compare(o Instant) int {
	if c := i.Date.Compare(o.Date); c != 0 {
		return c
	}
	return cmpInt(int(i.Time), int(o.Time))
}

func (i Instant) String() string {
	return i.Date.String() + "T" + i.Time.String()
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: instant must be a string", ErrMalformedInput)
	}
	parsed, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
