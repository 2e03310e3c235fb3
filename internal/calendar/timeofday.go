package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with second resolution, stored as seconds
// since midnight. Valid values are in [00:00:00, 23:59:59].
type TimeOfDay int32

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: time %02d:%02d:%02d out of range", ErrMalformedInput, hour, minute, second)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// MustTimeOfDay is NewTimeOfDay for literals known to be valid.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// ParseTimeOfDay accepts HH:MM:SS (optionally with fractional seconds,
// which are dropped) and HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("%w: time %q, expected HH:MM:SS", ErrMalformedInput, s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func (TimeOfDay) GormDataType() string { return "time" }

func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("time of day %d out of range", int32(t))
	}
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = TimeOfDayOf(v)
	case int64:
		// microseconds since midnight, as pgtype.Time carries it
		*t = TimeOfDay(v / int64(time.Second/time.Microsecond))
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: time must be a string", ErrMalformedInput)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
