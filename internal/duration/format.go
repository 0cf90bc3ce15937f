package duration

import "fmt"

// Format renders seconds as "M:SS", or "H:MM:SS" once an hour is reached.
// Negative input is treated as zero.
func Format(seconds int) string {
	s := max(seconds, 0)
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// FormatCompact renders anything under a minute as "{s}s" and defers to
// Format otherwise.
func FormatCompact(seconds int) string {
	s := max(seconds, 0)
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return Format(s)
}

// String renders v with FormatCompact, or "" when no value is present.
func (v Value) String() string {
	if !v.set {
		return ""
	}
	return FormatCompact(v.seconds)
}
