package serverutils

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// ParseTimeBound parses an RFC3339 timestamp or a bare date. A bare date is
// widened to the start of the day, or to its last instant when upper is set,
// so that both ends of a range stay inclusive.
func ParseTimeBound(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	day, err := time.ParseInLocation(dateOnly, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither RFC3339 nor YYYY-MM-DD", ErrBadRequest, raw)
	}

	if upper {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}
