package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/localstore"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/training"
	"github.com/meltforce/liftlog/internal/upload"
)

func (g globals) log(ctx context.Context, args []string) error {
	fs := g.flagSet("log")
	exercise := fs.String("exercise", "", "exercise name")
	equipment := fs.String("equipment", "", "equipment")
	weight := fs.Float64("weight", 0, "weight lifted")
	reps := fs.Int("reps", 0, "repetitions completed")
	rest := fs.String("rest", "", "rest before the set, e.g. 90s, 2:30, 3m")
	warmup := fs.Bool("warmup", false, "mark as a warm-up set")
	session := fs.String("session", "", "session name")
	note := fs.String("note", "", "note")
	var rir optionalFloat
	fs.Var(&rir, "rir", "reps in reserve")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if strings.TrimSpace(*exercise) == "" {
		return fmt.Errorf("-exercise is required")
	}
	if *weight < 0 || *reps < 0 {
		return fmt.Errorf("weight and reps must not be negative")
	}
	restValue, err := duration.Parse(*rest)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", *rest, err)
	}

	store, err := localstore.Open(g.stateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	row, err := store.AddSet(ctx, models.SetRow{
		Exercise:    strings.TrimSpace(*exercise),
		Equipment:   *equipment,
		PerformedAt: time.Now(),
		Weight:      *weight,
		Reps:        *reps,
		RIR:         rir.v,
		IsWarmup:    *warmup,
		RestSeconds: restValue.Ptr(),
		Session:     *session,
		Note:        *note,
	})
	if err != nil {
		return err
	}
	if g.json {
		return g.printJSON(row)
	}

	fmt.Fprintf(g.stdout, "logged %s %g x %d", row.Exercise, row.Weight, row.Reps)
	if !row.IsWarmup {
		formula := newCalculator().Defaults().OneRMFormula()
		if e1rm := training.EstimateOneRepMax(formula, row.Weight, float64(row.Reps)); e1rm > 0 {
			fmt.Fprintf(g.stdout, " (e1RM %d)", e1rm)
		}
	}
	fmt.Fprintln(g.stdout)
	return nil
}

func (g globals) sets(ctx context.Context, args []string) error {
	fs := g.flagSet("sets")
	exercise := fs.String("exercise", "", "only this exercise")
	limit := fs.Int("limit", 20, "maximum sets to show")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	store, err := localstore.Open(g.stateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	sets, err := store.ListSets(ctx, *exercise, *limit)
	if err != nil {
		return err
	}
	if g.json {
		if sets == nil {
			sets = []localstore.LocalSet{}
		}
		return g.printJSON(sets)
	}
	if len(sets) == 0 {
		fmt.Fprintln(g.stdout, "no sets logged")
		return nil
	}

	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tEXERCISE\tSET\tRIR\tREST\tPUSHED")
	for _, s := range sets {
		set := fmt.Sprintf("%g x %d", s.Weight, s.Reps)
		if s.IsWarmup {
			set += " (w)"
		}
		rir := "-"
		if s.RIR != nil {
			rir = fmt.Sprintf("%g", *s.RIR)
		}
		rest := "-"
		if s.RestSeconds != nil {
			rest = duration.FormatCompact(*s.RestSeconds)
		}
		pushed := "no"
		if s.PushedAt != nil {
			pushed = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.PerformedAt.Local().Format("2006-01-02 15:04"), s.Exercise, set, rir, rest, pushed)
	}
	return tw.Flush()
}

func (g globals) push(ctx context.Context, args []string) error {
	fs := g.flagSet("push")
	serverURL := fs.String("server", os.Getenv("LIFTLOG_SERVER"), "LiftLog server URL")
	apiKey := fs.String("api-key", os.Getenv("LIFTLOG_AUTH_API_KEY"), "API key (or LIFTLOG_AUTH_API_KEY)")
	dryRun := fs.Bool("dry-run", false, "show what would be pushed")
	batchSize := fs.Int("batch-size", 100, "sets per request")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *serverURL == "" && !*dryRun {
		return fmt.Errorf("-server is required (or use -dry-run)")
	}

	log, closer, err := logging.Setup(logging.Params{Level: *logLevel})
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := localstore.Open(g.stateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	// Client is unused in dry-run mode.
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, *apiKey)
		defer client.Close()
	}

	stats, err := upload.New(client, store, *dryRun, *batchSize, log).Run(ctx)
	if stats != nil {
		fmt.Fprintf(g.stdout, "pushed %d sets in %d batches (%d new on server)\n", stats.Pushed, stats.Batches, stats.Inserted)
	}
	return err
}
