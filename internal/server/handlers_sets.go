package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/training"
)

const maxSetsPerRequest = 500

// errInvalidTime is reported when rest text cannot be read as a duration.
var errInvalidTime = errors.New("invalid time")

// SetInput is one set in a POST /api/v1/sets body. Rest is free text such
// as "90s", "2:30" or "3m"; RestSeconds is used when Rest is empty.
type SetInput struct {
	ID          string     `json:"id,omitempty"`
	Exercise    string     `json:"exercise"`
	Equipment   string     `json:"equipment,omitempty"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
	Weight      float64    `json:"weight"`
	Reps        int        `json:"reps"`
	RIR         *float64   `json:"rir,omitempty"`
	IsWarmup    bool       `json:"is_warmup"`
	Rest        string     `json:"rest,omitempty"`
	RestSeconds *int       `json:"rest_seconds,omitempty"`
	Session     string     `json:"session,omitempty"`
	Note        string     `json:"note,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// LogSetsRequest is the body of POST /api/v1/sets.
type LogSetsRequest struct {
	Sets []SetInput `json:"sets"`
}

// LogSetsResponse reports what POST /api/v1/sets stored.
type LogSetsResponse struct {
	Received int         `json:"received"`
	Inserted int64       `json:"inserted"`
	IDs      []uuid.UUID `json:"ids"`
}

// SetView is a stored set as returned by GET /api/v1/sets.
type SetView struct {
	models.SetRow
	EstimatedOneRM int    `json:"estimated_one_rm,omitempty"`
	Rest           string `json:"rest,omitempty"`
}

// toRow validates one input set and converts it to a row for uid.
func (in SetInput) toRow(uid int, now time.Time) (models.SetRow, error) {
	row := models.SetRow{
		UserID:    uid,
		Exercise:  strings.TrimSpace(in.Exercise),
		Equipment: strings.TrimSpace(in.Equipment),
		Weight:    in.Weight,
		Reps:      in.Reps,
		RIR:       in.RIR,
		IsWarmup:  in.IsWarmup,
		Session:   in.Session,
		Note:      in.Note,
		Source:    in.Source,
	}
	if row.Exercise == "" {
		return row, errors.New("exercise is required")
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight < 0 {
		return row, errors.New("weight must be a non-negative number")
	}
	if in.Reps < 0 {
		return row, errors.New("reps must not be negative")
	}
	switch row.Source {
	case "":
		row.Source = models.SourceManual
	case models.SourceManual, models.SourceCLI:
	default:
		return row, fmt.Errorf("source %q not accepted", in.Source)
	}
	if in.ID != "" {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return row, errors.New("invalid set id")
		}
		row.ID = id
	} else {
		row.ID = uuid.New()
	}

	row.PerformedAt = now
	if in.PerformedAt != nil {
		row.PerformedAt = *in.PerformedAt
	}

	switch {
	case strings.TrimSpace(in.Rest) != "":
		v, err := duration.Parse(in.Rest)
		if err != nil {
			return row, errInvalidTime
		}
		row.RestSeconds = v.Ptr()
	case in.RestSeconds != nil:
		if *in.RestSeconds < 0 {
			return row, errInvalidTime
		}
		row.RestSeconds = in.RestSeconds
	}
	return row, nil
}

func (s *Server) handleLogSets(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req LogSetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Sets) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no sets"})
		return
	}
	if len(req.Sets) > maxSetsPerRequest {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("at most %d sets per request", maxSetsPerRequest)})
		return
	}

	now := time.Now().UTC()
	rows := make([]models.SetRow, 0, len(req.Sets))
	resp := LogSetsResponse{Received: len(req.Sets), IDs: make([]uuid.UUID, 0, len(req.Sets))}
	for i, in := range req.Sets {
		row, err := in.toRow(uid, now)
		if errors.Is(err, errInvalidTime) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errInvalidTime.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("set %d: %s", i+1, err)})
			return
		}
		rows = append(rows, row)
		resp.IDs = append(resp.IDs, row.ID)
	}

	inserted, err := s.db.InsertSets(r.Context(), rows)
	if err != nil {
		s.log.Error("log sets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	resp.Inserted = inserted

	if s.metrics != nil {
		for _, row := range rows {
			s.metrics.CounterSetsLogged.WithLabelValues(row.Source).Inc()
		}
	}
	s.log.Info("sets logged", "user_id", uid, "received", resp.Received, "inserted", inserted)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleQuerySets(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QuerySets(r.Context(), start, end, uid, r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	formula := s.calc.Defaults().OneRMFormula()
	views := make([]SetView, 0, len(rows))
	for _, row := range rows {
		v := SetView{SetRow: row}
		if !row.IsWarmup {
			v.EstimatedOneRM = training.EstimateOneRepMax(formula, row.Weight, float64(row.Reps))
		}
		if row.RestSeconds != nil {
			v.Rest = duration.FormatCompact(*row.RestSeconds)
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercises, err := s.db.ListExercises(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

// handleExerciseSummary reports the best estimate for an exercise with the
// percentage table and warm-up ladder built from it.
func (s *Server) handleExerciseSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	rows, err := s.db.QuerySets(r.Context(), time.Time{}, time.Now().Add(24*time.Hour), uid, name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	formula := s.calc.Defaults().OneRMFormula()
	best, found := progress.BestFor(rows, name, formula)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no working sets for " + name})
		return
	}

	table := s.calc.Percentages(float64(best.EstimatedOneRM), nil, nil)
	warmup, err := s.calc.Warmup(best.Weight, nil, nil, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exercise":    best.Exercise,
		"formula":     formula,
		"best":        best,
		"percentages": table.Rows,
		"warmup":      warmup.Sets,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRangeDefault(r, 180)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QuerySets(r.Context(), start, end, uid, r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, progress.History(rows, s.calc.Defaults().OneRMFormula()))
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRangeDefault(r, 90)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	periods, err := s.db.GetVolumeSummary(r.Context(), start, end, r.URL.Query().Get("bucket"), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleIntensity(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRangeDefault(r, 90)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.db.GetIntensity(r.Context(), start, end, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
