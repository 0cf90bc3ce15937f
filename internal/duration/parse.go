// Package duration reads free-form rest and set durations ("90s", "2m",
// "1:30", "1:02:03") into whole seconds and renders seconds back for display.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseError is the reason a duration could not be read. Its string form is
// the wire code surfaced to API clients.
type ParseError string

const (
	// ErrInvalidFormat means the text is not a duration this package understands.
	ErrInvalidFormat ParseError = "invalid_format"
	// ErrNegative means the text is a well-formed but negative duration.
	ErrNegative ParseError = "negative"
)

func (e ParseError) Error() string {
	return string(e)
}

// decimalNumber is plain decimal notation with an optional exponent. It
// excludes the underscores, hex and inf/nan forms strconv also accepts.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// maxSeconds bounds parsed values to what float64 represents exactly.
const maxSeconds = 1 << 53

// Value is a parsed duration. The zero Value means the text held no duration.
type Value struct {
	seconds int
	set     bool
}

// Seconds returns the parsed seconds and whether a value was present.
func (v Value) Seconds() (int, bool) {
	return v.seconds, v.set
}

// IsSet reports whether a value was present.
func (v Value) IsSet() bool {
	return v.set
}

// Ptr returns the seconds as a pointer, nil when no value was present.
func (v Value) Ptr() *int {
	if !v.set {
		return nil
	}
	s := v.seconds
	return &s
}

// Of returns a present Value holding s seconds.
func Of(s int) Value {
	return Value{seconds: s, set: true}
}

// Parse reads text as a duration. Accepted forms:
//
//	""          no value
//	"90s"       seconds
//	"2.5m"      minutes
//	"1h"        hours
//	"1:30"      mm:ss
//	"1:02:03"   hh:mm:ss
//	"75"        bare seconds
//
// Fractional parts are floored to whole seconds. Failures are ErrInvalidFormat
// or ErrNegative.
func Parse(text string) (Value, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Value{}, nil
	}

	if unit, ok := unitScale(s[len(s)-1]); ok {
		n, err := parseNumber(s[:len(s)-1])
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, ErrNegative
		}
		return toValue(n * unit)
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	n, err := parseNumber(s)
	if err != nil {
		return Value{}, err
	}
	if n < 0 {
		return Value{}, ErrNegative
	}
	return toValue(n)
}

func unitScale(suffix byte) (float64, bool) {
	switch suffix {
	case 's':
		return 1, true
	case 'm':
		return 60, true
	case 'h':
		return 3600, true
	}
	return 0, false
}

// parseClock reads "mm:ss" or "hh:mm:ss".
func parseClock(s string) (Value, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Value{}, ErrInvalidFormat
	}

	nums := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Value{}, ErrInvalidFormat
		}
		n, err := parseNumber(p)
		if err != nil {
			return Value{}, err
		}
		nums[i] = n
	}
	for _, n := range nums {
		if n < 0 {
			return Value{}, ErrNegative
		}
	}

	var total float64
	weight := 1.0
	for i := len(nums) - 1; i >= 0; i-- {
		total += math.Floor(nums[i]) * weight
		weight *= 60
	}
	return toValue(total)
}

// parseNumber reads a finite decimal number.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalNumber.MatchString(s) {
		return 0, ErrInvalidFormat
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidFormat
	}
	return n, nil
}

func toValue(seconds float64) (Value, error) {
	seconds = math.Floor(seconds)
	if seconds > maxSeconds {
		return Value{}, ErrInvalidFormat
	}
	return Of(int(seconds)), nil
}
