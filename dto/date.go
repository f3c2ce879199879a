package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// Ptr returns nil for a missing date
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
