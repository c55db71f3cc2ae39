package contracts

import (
	"bytes"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the ISO-8601 local date-time form, e.g.
// "2025-03-01T10:30:00.123456". Values are written in UTC and parsed as UTC.
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999999"

// LocalDateTime is a timestamp encoded without zone offset.
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t.UTC()}
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(LocalDateTimeLayout) + `"`), nil
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("local date-time must be a JSON string, got %s", data)
	}

	parsed, err := time.ParseInLocation(LocalDateTimeLayout, string(data[1:len(data)-1]), time.UTC)
	if err != nil {
		return fmt.Errorf("invalid local date-time: %w", err)
	}
	t.Time = parsed
	return nil
}
