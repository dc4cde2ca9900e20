// Package timex fixes the single timestamp format used for account
// timestamps and provides a JSON-friendly duration type for configuration
// files.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Layout is the one timestamp format used for account timestamps
// (time_stamp, active_to). All comparisons go through Parse so that
// ordering is done on time.Time values, never on raw strings.
const Layout = "2006-01-02 15:04:05"

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a Layout timestamp. The zero string is not a valid stamp.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Duration wraps time.Duration so JSON config files can use either a
// string such as "1s" or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
