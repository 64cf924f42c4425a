package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp нормализует дату, пришедшую из хранилища: строка ISO-8601,
// строка YYYY-MM-DD, unix-время (секунды или миллисекунды) или объект
// вида {"seconds": n, "nanoseconds": n}.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// millisThreshold separates unix seconds from unix milliseconds (year 2286 in seconds).
const millisThreshold = 1e10

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		ts.Time = t
		return nil
	case '{':
		var native struct {
			Seconds     int64 `json:"seconds"`
			Nanoseconds int64 `json:"nanoseconds"`
		}
		if err := json.Unmarshal(data, &native); err != nil {
			return fmt.Errorf("decoding native timestamp: %w", err)
		}
		ts.Time = time.Unix(native.Seconds, native.Nanoseconds).UTC()
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported timestamp %s: %w", string(data), err)
		}
		if n >= millisThreshold {
			ts.Time = time.UnixMilli(int64(n)).UTC()
		} else {
			ts.Time = time.Unix(int64(n), 0).UTC()
		}
		return nil
	}
}

// ParseTimestamp разбирает строковое представление даты
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
