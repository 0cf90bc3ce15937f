package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exercises(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, exercises)
}

func (h *handlers) recentSets(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	sets, err := h.ds.QuerySets(ctx, start, end, UserIDFromContext(ctx), "")
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, sets)
}

func (h *handlers) calculatorDefaults(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	d := h.calc.Defaults()
	return jsonContents(req.Params.URI, map[string]any{
		"bar_weight":         d.BarWeight,
		"rounding_increment": d.RoundingIncrement,
		"formula":            d.OneRMFormula(),
		"warmup_preset":      d.Preset(),
		"percentages":        d.Percentages,
	})
}
