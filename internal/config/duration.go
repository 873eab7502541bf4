package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationFlexible accepts duration strings ("300ms"), bare numbers
// (milliseconds) or time.Duration values. Empty and unknown inputs yield def.
func parseDurationFlexible(raw any, def time.Duration) (time.Duration, error) {
	switch t := raw.(type) {
	case time.Duration:
		if t <= 0 {
			return def, fmt.Errorf("duration must be >0")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		if d, err := time.ParseDuration(s); err == nil {
			if d <= 0 {
				return def, fmt.Errorf("duration must be >0")
			}
			return d, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n <= 0 {
				return def, fmt.Errorf("milliseconds must be >0")
			}
			return time.Duration(n) * time.Millisecond, nil
		}
		return def, fmt.Errorf("cannot parse duration %q", s)
	case int:
		return millis(int64(t), def)
	case int64:
		return millis(t, def)
	case float64:
		if t <= 0 {
			return def, fmt.Errorf("milliseconds must be >0")
		}
		return time.Duration(t * float64(time.Millisecond)), nil
	default:
		return def, nil
	}
}

func millis(n int64, def time.Duration) (time.Duration, error) {
	if n <= 0 {
		return def, fmt.Errorf("milliseconds must be >0")
	}
	return time.Duration(n) * time.Millisecond, nil
}
