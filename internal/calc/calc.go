// Package calc fronts the training and duration packages for the HTTP API and
// MCP tools: it fills in configured defaults, caches results and records
// metrics.
package calc

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/memo"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/training"
)

// Calculation kinds, used as metric labels.
const (
	KindOneRM          = "one_rep_max"
	KindPercentages    = "percentages"
	KindWarmup         = "warmup"
	KindDurationParse  = "duration_parse"
	KindDurationFormat = "duration_format"
)

// Estimate is one formula's one-rep-max estimate.
type Estimate struct {
	Formula training.Formula `json:"formula"`
	OneRM   int              `json:"one_rm"`
}

// OneRMResult answers a one-rep-max request.
type OneRMResult struct {
	Weight    float64    `json:"weight"`
	Reps      float64    `json:"reps"`
	Estimates []Estimate `json:"estimates"`
}

// TableResult answers a percentage table request.
type TableResult struct {
	OneRM     float64                    `json:"one_rm"`
	Increment float64                    `json:"increment"`
	Rows      []training.PercentageEntry `json:"rows"`
}

// WarmupResult answers a warm-up request.
type WarmupResult struct {
	Working   float64               `json:"working"`
	Bar       float64               `json:"bar"`
	Increment float64               `json:"increment"`
	Preset    training.WarmupPreset `json:"preset"`
	Sets      []training.WarmupSet  `json:"sets"`
}

// FormatResult answers a duration format request.
type FormatResult struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
	Compact   string `json:"compact"`
}

// Calculator is safe for concurrent use. The cache and metrics are optional.
type Calculator struct {
	defaults config.TrainingConfig
	cache    *memo.Cache
	metrics  *metrics.Manager

	mu   sync.Mutex
	last memo.Stats
}

func New(defaults config.TrainingConfig, cache *memo.Cache, m *metrics.Manager) *Calculator {
	if len(defaults.Percentages) == 0 {
		defaults.Percentages = training.DefaultPercentages
	}
	return &Calculator{defaults: defaults, cache: cache, metrics: m}
}

// Defaults returns the configured training defaults.
func (c *Calculator) Defaults() config.TrainingConfig {
	return c.defaults
}

// CacheStats reports the memo cache counters.
func (c *Calculator) CacheStats() memo.Stats {
	return c.cache.Stats()
}

// OneRepMax estimates with one formula, or with every formula when formula
// is empty.
func (c *Calculator) OneRepMax(weight, reps float64, formula string) (OneRMResult, error) {
	formulas := training.Formulas()
	if strings.TrimSpace(formula) != "" {
		f, err := training.ParseFormula(formula)
		if err != nil {
			return OneRMResult{}, err
		}
		formulas = []training.Formula{f}
	}

	res := OneRMResult{Weight: weight, Reps: reps, Estimates: make([]Estimate, 0, len(formulas))}
	for _, f := range formulas {
		key := "1rm:" + string(f) + ":" + num(weight) + ":" + num(reps)
		est := memo.Do(c.cache, key, func() int {
			return training.EstimateOneRepMax(f, weight, reps)
		})
		res.Estimates = append(res.Estimates, Estimate{Formula: f, OneRM: est})
	}
	c.observe(KindOneRM)
	return res, nil
}

// Percentages builds a percentage table. Nil percentages and increment fall
// back to the configured defaults.
func (c *Calculator) Percentages(oneRM float64, percentages []float64, increment *float64) TableResult {
	if len(percentages) == 0 {
		percentages = c.defaults.Percentages
	}
	inc := c.defaults.RoundingIncrement
	if increment != nil {
		inc = *increment
	}

	parts := make([]string, len(percentages))
	for i, p := range percentages {
		parts[i] = num(p)
	}
	key := "pct:" + num(oneRM) + ":" + num(inc) + ":" + strings.Join(parts, ",")
	rows := memo.Do(c.cache, key, func() []training.PercentageEntry {
		return training.PercentageTable(oneRM, percentages, inc)
	})
	if rows == nil {
		rows = []training.PercentageEntry{}
	}
	c.observe(KindPercentages)
	return TableResult{OneRM: oneRM, Increment: inc, Rows: rows}
}

// Warmup plans a warm-up ladder. Nil bar and increment and an empty preset
// fall back to the configured defaults.
func (c *Calculator) Warmup(working float64, bar, increment *float64, preset string) (WarmupResult, error) {
	p := c.defaults.Preset()
	if strings.TrimSpace(preset) != "" {
		var err error
		if p, err = training.ParseWarmupPreset(preset); err != nil {
			return WarmupResult{}, err
		}
	}
	b := c.defaults.BarWeight
	if bar != nil {
		b = *bar
	}
	inc := c.defaults.RoundingIncrement
	if increment != nil {
		inc = *increment
	}

	key := fmt.Sprintf("warmup:%s:%s:%s:%s", p, num(working), num(b), num(inc))
	sets := memo.Do(c.cache, key, func() []training.WarmupSet {
		return training.Warmup(p, working, b, inc)
	})
	c.observe(KindWarmup)
	return WarmupResult{Working: working, Bar: b, Increment: inc, Preset: p, Sets: sets}, nil
}

// ParseDuration parses free-form duration text. Parsing is cheap, so it is
// not cached.
func (c *Calculator) ParseDuration(text string) duration.Result {
	c.observe(KindDurationParse)
	return duration.ParseResult(text)
}

// FormatDuration renders seconds in both clock styles.
func (c *Calculator) FormatDuration(seconds int) FormatResult {
	c.observe(KindDurationFormat)
	return FormatResult{
		Seconds:   seconds,
		Formatted: duration.Format(seconds),
		Compact:   duration.FormatCompact(seconds),
	}
}

func (c *Calculator) observe(kind string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CounterCalculations.WithLabelValues(kind).Inc()

	st := c.cache.Stats()
	c.mu.Lock()
	hits, misses := st.Hits-c.last.Hits, st.Misses-c.last.Misses
	c.last = st
	c.mu.Unlock()
	c.metrics.ObserveMemo(hits, misses)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
