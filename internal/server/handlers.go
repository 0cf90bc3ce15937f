package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := requiredFloat(q.Get("weight"), "weight")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	reps, err := requiredFloat(q.Get("reps"), "reps")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.calc.OneRepMax(weight, reps, q.Get("formula"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePercentages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	oneRM, err := requiredFloat(q.Get("one_rm"), "one_rm")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	increment, err := optionalFloat(q.Get("increment"), "increment")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pcts, err := parseFloatList(q.Get("pct"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.calc.Percentages(oneRM, pcts, increment))
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	working, err := requiredFloat(q.Get("working"), "working")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	bar, err := optionalFloat(q.Get("bar"), "bar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	increment, err := optionalFloat(q.Get("increment"), "increment")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.calc.Warmup(working, bar, increment, q.Get("preset"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDurationParse(w http.ResponseWriter, r *http.Request) {
	res := s.calc.ParseDuration(r.URL.Query().Get("text"))
	status := http.StatusOK
	if !res.OK {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func (s *Server) handleDurationFormat(w http.ResponseWriter, r *http.Request) {
	seconds, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("seconds")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must be an integer"})
		return
	}
	writeJSON(w, http.StatusOK, s.calc.FormatDuration(seconds))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func requiredFloat(s, name string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New(name + " parameter required")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(name + " must be a number")
	}
	return f, nil
}

func optionalFloat(s, name string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	f, err := requiredFloat(s, name)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseFloatList reads "0.9,0.85" style lists. Empty input yields nil.
func parseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := requiredFloat(p, "pct")
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	return parseTimeRangeDefault(r, 7)
}

// parseTimeRangeDefault reads start/end query parameters (RFC 3339 or
// YYYY-MM-DD). A missing start reaches back the given number of days from end.
func parseTimeRangeDefault(r *http.Request, days int) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		start = end.AddDate(0, 0, -days)
		return
	}
	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return
}
