package mcp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/training"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	return timeRangeBack(startStr, endStr, 7)
}

// timeRangeBack parses start/end; a missing start reaches back days from end.
func timeRangeBack(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// optionalNumber reads a numeric argument that may be absent. Numbers sent
// as strings are accepted.
func optionalNumber(req mcp.CallToolRequest, name string) (*float64, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case string:
		if strings.TrimSpace(n) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", name)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%s must be a number", name)
	}
}

// numberList reads an array of numbers. A missing argument yields nil.
func numberList(req mcp.CallToolRequest, name string) ([]float64, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", name)
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of numbers", name)
		}
		out = append(out, f)
	}
	return out, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimate a one-rep max from a weight lifted for a number of reps. Without a formula, returns the Epley, Brzycki and Lombardi estimates."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions completed")),
	mcp.WithString("formula", mcp.Description("Estimation formula. Omit for all three."), mcp.Enum("epley", "brzycki", "lombardi")),
)

var toolPercentageTable = mcp.NewTool("percentage_table",
	mcp.WithDescription("Build a table of loads at percentages of a one-rep max, rounded to the plate increment."),
	mcp.WithNumber("one_rm", mcp.Required(), mcp.Description("One-rep max")),
	mcp.WithArray("percentages", mcp.Description("Fractions of the one-rep max, e.g. [0.9, 0.8]. Defaults to 100% down to 50% in 5% steps."), mcp.Items(map[string]any{"type": "number"})),
	mcp.WithNumber("increment", mcp.Description("Rounding increment. Defaults to the server setting (2.5).")),
)

var toolWarmupPlan = mcp.NewTool("warmup_plan",
	mcp.WithDescription("Plan warm-up sets leading up to a working weight. 'standard' ramps from the empty bar by percentages; 'quick' is a short three-step ladder."),
	mcp.WithNumber("working", mcp.Required(), mcp.Description("Working set weight")),
	mcp.WithNumber("bar", mcp.Description("Bar weight. Defaults to the server setting (20).")),
	mcp.WithNumber("increment", mcp.Description("Rounding increment. Defaults to the server setting (2.5).")),
	mcp.WithString("preset", mcp.Description("Warm-up preset. Defaults to the server setting."), mcp.Enum("standard", "quick")),
)

var toolParseDuration = mcp.NewTool("parse_duration",
	mcp.WithDescription("Parse a rest or session time such as '90s', '2.5m', '1h', '1:30' or '1:02:03' into seconds. Empty text parses to no value."),
	mcp.WithString("text", mcp.Description("Duration text")),
)

var toolFormatDuration = mcp.NewTool("format_duration",
	mcp.WithDescription("Render whole seconds as M:SS or H:MM:SS, plus a compact form that uses '45s' below one minute."),
	mcp.WithNumber("seconds", mcp.Required(), mcp.Description("Whole seconds")),
)

var toolGetSets = mcp.NewTool("get_sets",
	mcp.WithDescription("Query logged sets. Each working set includes its estimated one-rep max; rest times are rendered as text."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Exact exercise name, case-insensitive")),
)

var toolGetBestLifts = mcp.NewTool("get_best_lifts",
	mcp.WithDescription("Best estimated one-rep max per exercise over a period, with the set that produced it."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 365 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Limit to one exercise")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Day-by-day progression of an exercise: estimated one-rep max, top weight, tonnage and working set count."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, case-insensitive")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 180 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetVolume = mcp.NewTool("get_volume",
	mcp.WithDescription("Training volume per period: sessions, working sets, reps, tonnage and rest."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to 'week'."), mcp.Enum("day", "week", "month")),
)

var toolGetIntensity = mcp.NewTool("get_intensity",
	mcp.WithDescription("RIR distribution, failure rate and per-exercise averages for working sets."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Calculator handlers ---

func (h *handlers) estimateOneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireFloat("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	res, err := h.calc.OneRepMax(weight, reps, req.GetString("formula", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) percentageTable(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oneRM, err := req.RequireFloat("one_rm")
	if err != nil {
		return mcp.NewToolResultError("one_rm parameter is required"), nil
	}
	pcts, err := numberList(req, "percentages")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	increment, err := optionalNumber(req, "increment")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(h.calc.Percentages(oneRM, pcts, increment))
}

func (h *handlers) warmupPlan(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	working, err := req.RequireFloat("working")
	if err != nil {
		return mcp.NewToolResultError("working parameter is required"), nil
	}
	bar, err := optionalNumber(req, "bar")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	increment, err := optionalNumber(req, "increment")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.calc.Warmup(working, bar, increment, req.GetString("preset", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) parseDuration(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.calc.ParseDuration(req.GetString("text", "")))
}

func (h *handlers) formatDuration(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds, err := req.RequireFloat("seconds")
	if err != nil {
		return mcp.NewToolResultError("seconds parameter is required"), nil
	}
	if seconds != math.Trunc(seconds) || math.Abs(seconds) > math.MaxInt32 {
		return mcp.NewToolResultError("seconds must be a whole number"), nil
	}
	return jsonResult(h.calc.FormatDuration(int(seconds)))
}

// --- Training log handlers ---

// setView is a logged set with its estimate and rest rendered for reading.
type setView struct {
	models.SetRow
	EstimatedOneRM int    `json:"estimated_one_rm,omitempty"`
	Rest           string `json:"rest,omitempty"`
}

func (h *handlers) getSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	sets, err := h.ds.QuerySets(ctx, start, end, uid, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	formula := h.calc.Defaults().OneRMFormula()
	views := make([]setView, 0, len(sets))
	for _, s := range sets {
		v := setView{SetRow: s}
		if !s.IsWarmup {
			v.EstimatedOneRM = training.EstimateOneRepMax(formula, s.Weight, float64(s.Reps))
		}
		if s.RestSeconds != nil {
			v.Rest = duration.FormatCompact(*s.RestSeconds)
		}
		views = append(views, v)
	}
	return jsonResult(views)
}

func (h *handlers) getBestLifts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRangeBack(req.GetString("start", ""), req.GetString("end", ""), 365)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	exercise := req.GetString("exercise", "")
	sets, err := h.ds.QuerySets(ctx, start, end, uid, exercise)
	if err != nil {
		h.log.Error("mcp get_best_lifts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	formula := h.calc.Defaults().OneRMFormula()
	if exercise != "" {
		best, ok := progress.BestFor(sets, exercise, formula)
		if !ok {
			return mcp.NewToolResultError("no working sets for " + exercise), nil
		}
		return jsonResult(map[string]any{
			"formula":     formula,
			"best":        best,
			"percentages": h.calc.Percentages(float64(best.EstimatedOneRM), nil, nil).Rows,
		})
	}
	return jsonResult(map[string]any{
		"formula": formula,
		"best":    progress.BestEstimates(sets, formula),
	})
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	start, end, err := timeRangeBack(req.GetString("start", ""), req.GetString("end", ""), 180)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	sets, err := h.ds.QuerySets(ctx, start, end, uid, exercise)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	history := progress.History(sets, h.calc.Defaults().OneRMFormula())
	if len(history) == 0 {
		return mcp.NewToolResultError("no working sets for " + exercise), nil
	}
	return jsonResult(history[0])
}

func (h *handlers) getVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRangeBack(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	periods, err := h.ds.GetVolumeSummary(ctx, start, end, req.GetString("bucket", "week"), uid)
	if err != nil {
		h.log.Error("mcp get_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(periods)
}

func (h *handlers) getIntensity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRangeBack(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	intensity, err := h.ds.GetIntensity(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_intensity", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(intensity)
}
