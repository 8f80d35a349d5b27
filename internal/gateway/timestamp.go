package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// fracDigits is the precision of Slack message timestamps ("seconds.micros").
const fracDigits = 6

// Timestamp is a parsed message timestamp. It keeps the integer and
// fractional parts separately so comparisons are exact.
type Timestamp struct {
	Sec  int64
	Frac int64 // fractional part scaled to fracDigits
	Raw  string
}

// ParseTimestamp parses "1700000000.000100" or a plain integer like "30".
func ParseTimestamp(raw string) (Timestamp, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || sec < 0 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", raw)
	}

	var frac int64
	if fracPart != "" {
		if len(fracPart) > fracDigits {
			fracPart = fracPart[:fracDigits]
		}
		fracPart += strings.Repeat("0", fracDigits-len(fracPart))
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil || frac < 0 {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q", raw)
		}
	}

	return Timestamp{Sec: sec, Frac: frac, Raw: raw}, nil
}

// Compare returns -1, 0 or 1.
func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.Sec < o.Sec:
		return -1
	case t.Sec > o.Sec:
		return 1
	case t.Frac < o.Frac:
		return -1
	case t.Frac > o.Frac:
		return 1
	}
	return 0
}

// After reports whether t is strictly later than o.
func (t Timestamp) After(o Timestamp) bool {
	return t.Compare(o) > 0
}

func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return fmt.Sprintf("%d.%06d", t.Sec, t.Frac)
}
