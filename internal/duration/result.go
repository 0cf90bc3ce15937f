package duration

import (
	"encoding/json"
	"errors"
)

// Result is the JSON shape of a parse outcome shared by the HTTP API and MCP
// tools. On success Seconds is null when the text held no value. On failure
// only ok and the ParseError code in Error are written.
type Result struct {
	OK      bool
	Seconds *int
	Error   string
}

type successJSON struct {
	OK      bool `json:"ok"`
	Seconds *int `json:"seconds"`
}

type failureJSON struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(failureJSON{Error: r.Error})
	}
	return json.Marshal(successJSON{OK: true, Seconds: r.Seconds})
}

// ParseResult parses text and folds the outcome into a Result.
func ParseResult(text string) Result {
	v, err := Parse(text)
	if err != nil {
		code := ErrInvalidFormat
		var pe ParseError
		if errors.As(err, &pe) {
			code = pe
		}
		return Result{OK: false, Error: string(code)}
	}
	return Result{OK: true, Seconds: v.Ptr()}
}
