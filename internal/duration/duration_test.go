package duration

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestParse covers every accepted form plus the failure codes.
func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantSet bool
		wantErr error
	}{
		{in: "", wantSet: false},
		{in: "   ", wantSet: false},
		{in: "90s", want: 90, wantSet: true},
		{in: "90S", want: 90, wantSet: true},
		{in: "10m", want: 600, wantSet: true},
		{in: " 2.5m ", want: 150, wantSet: true},
		{in: "1h", want: 3600, wantSet: true},
		{in: "0.5H", want: 1800, wantSet: true},
		{in: "1.9s", want: 1, wantSet: true},
		{in: "10 m", want: 600, wantSet: true},
		{in: "1:30", want: 90, wantSet: true},
		{in: "0:05", want: 5, wantSet: true},
		{in: "90:00", want: 5400, wantSet: true},
		{in: "1:02:03", want: 3723, wantSet: true},
		{in: "1:2:3", want: 3723, wantSet: true},
		{in: "1.7:30.9", want: 90, wantSet: true},
		{in: "75", want: 75, wantSet: true},
		{in: "75.8", want: 75, wantSet: true},
		{in: "0", want: 0, wantSet: true},
		{in: "abc", wantErr: ErrInvalidFormat},
		{in: "s", wantErr: ErrInvalidFormat},
		{in: "10ms", wantErr: ErrInvalidFormat},
		{in: "infs", wantErr: ErrInvalidFormat},
		{in: "nan", wantErr: ErrInvalidFormat},
		{in: "1:30m", wantErr: ErrInvalidFormat},
		{in: "1::30", wantErr: ErrInvalidFormat},
		{in: ":30", wantErr: ErrInvalidFormat},
		{in: "1:", wantErr: ErrInvalidFormat},
		{in: "1:2:3:4", wantErr: ErrInvalidFormat},
		{in: "a:30", wantErr: ErrInvalidFormat},
		{in: "1e300h", wantErr: ErrInvalidFormat},
		{in: "1_0", wantErr: ErrInvalidFormat},
		{in: "1_0m", wantErr: ErrInvalidFormat},
		{in: "0x1p4", wantErr: ErrInvalidFormat},
		{in: "0x10s", wantErr: ErrInvalidFormat},
		{in: "1:0_5", wantErr: ErrInvalidFormat},
		{in: "+inf", wantErr: ErrInvalidFormat},
		{in: "1.5.2", wantErr: ErrInvalidFormat},
		{in: ".", wantErr: ErrInvalidFormat},
		{in: "+90", want: 90, wantSet: true},
		{in: ".5m", want: 30, wantSet: true},
		{in: "1e2", want: 100, wantSet: true},
		{in: "-1", wantErr: ErrNegative},
		{in: "-5s", wantErr: ErrNegative},
		{in: "-0.5m", wantErr: ErrNegative},
		{in: "1:-30", wantErr: ErrNegative},
		{in: "-1:00:00", wantErr: ErrNegative},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				if v.IsSet() {
					t.Errorf("Parse(%q) returned a value alongside an error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			got, set := v.Seconds()
			if set != tt.wantSet {
				t.Fatalf("Parse(%q) set = %v, want %v", tt.in, set, tt.wantSet)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestFormat checks minute and hour rendering plus clamping.
func TestFormat(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3723, "1:02:03"},
		{36000 + 61, "10:01:01"},
		{-30, "0:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestFormatCompact checks the seconds-only rendering below one minute.
func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{5, "5s"},
		{0, "0s"},
		{59, "59s"},
		{60, "1:00"},
		{65, "1:05"},
		{3723, "1:02:03"},
		{-4, "0s"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestFormatParseRoundTrip verifies that everything Format emits reads back
// to the same number of seconds, and the same for FormatCompact.
func TestFormatParseRoundTrip(t *testing.T) {
	for s := 0; s <= 3*3600; s += 7 {
		for _, render := range []func(int) string{Format, FormatCompact} {
			text := render(s)
			v, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", text, err)
			}
			if got, _ := v.Seconds(); got != s {
				t.Fatalf("round trip %d -> %q -> %d", s, text, got)
			}
		}
	}
}

// TestParseResult verifies the JSON shape distinguishes no value, a value and failures.
func TestParseResult(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `{"ok":true,"seconds":null}`},
		{"10m", `{"ok":true,"seconds":600}`},
		{"abc", `{"ok":false,"error":"invalid_format"}`},
		{"-1", `{"ok":false,"error":"negative"}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(ParseResult(tt.in))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("ParseResult(%q) = %s, want %s", tt.in, data, tt.want)
		}
	}
}

// TestValueHelpers covers the pointer and string views of a Value.
func TestValueHelpers(t *testing.T) {
	var empty Value
	if empty.Ptr() != nil {
		t.Error("empty Value Ptr should be nil")
	}
	if empty.String() != "" {
		t.Errorf("empty Value String = %q, want empty", empty.String())
	}

	v := Of(125)
	if p := v.Ptr(); p == nil || *p != 125 {
		t.Errorf("Of(125).Ptr() = %v, want 125", p)
	}
	if v.String() != "2:05" {
		t.Errorf("Of(125).String() = %q, want 2:05", v.String())
	}
}
