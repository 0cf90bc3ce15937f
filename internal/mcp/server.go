package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/calc"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, c *calc.Calculator, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training server. Estimate one-rep maxes, build percentage tables and warm-up ladders, parse rest times, and query logged sets, progress, volume and intensity. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, calc: c, log: log}

	// Calculators
	s.AddTools(
		server.ServerTool{Tool: toolEstimateOneRepMax, Handler: h.estimateOneRepMax},
		server.ServerTool{Tool: toolPercentageTable, Handler: h.percentageTable},
		server.ServerTool{Tool: toolWarmupPlan, Handler: h.warmupPlan},
		server.ServerTool{Tool: toolParseDuration, Handler: h.parseDuration},
		server.ServerTool{Tool: toolFormatDuration, Handler: h.formatDuration},
	)

	// Training log
	s.AddTools(
		server.ServerTool{Tool: toolGetSets, Handler: h.getSets},
		server.ServerTool{Tool: toolGetBestLifts, Handler: h.getBestLifts},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolGetVolume, Handler: h.getVolume},
		server.ServerTool{Tool: toolGetIntensity, Handler: h.getIntensity},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExercises, Handler: h.exercises},
		server.ServerResource{Resource: resRecentSets, Handler: h.recentSets},
		server.ServerResource{Resource: resCalculatorDefaults, Handler: h.calculatorDefaults},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	calc *calc.Calculator
	log  *slog.Logger
}

// --- Resource definitions ---

var resExercises = mcp.NewResource(
	"liftlog://exercises",
	"Exercises",
	mcp.WithResourceDescription("Every logged exercise with its set count and when it was last performed"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSets = mcp.NewResource(
	"liftlog://recent_sets",
	"Recent Sets",
	mcp.WithResourceDescription("Sets logged in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resCalculatorDefaults = mcp.NewResource(
	"liftlog://calculator_defaults",
	"Calculator Defaults",
	mcp.WithResourceDescription("Bar weight, rounding increment, formula, warm-up preset and percentages used when a tool call leaves them out"),
	mcp.WithMIMEType("application/json"),
)
