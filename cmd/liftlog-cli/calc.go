package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/meltforce/liftlog/internal/calc"
	"github.com/meltforce/liftlog/internal/config"
)

// newCalculator uses the built-in training defaults, overridable through the
// LIFTLOG_* environment variables the server also reads.
func newCalculator() *calc.Calculator {
	return calc.New(config.TrainingFromEnv(config.Defaults().Training), nil, nil)
}

func (g globals) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(g.stderr)
	return fs
}

func (g globals) printJSON(v any) error {
	enc := json.NewEncoder(g.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optionalFloat is a float flag that remembers whether it was set.
type optionalFloat struct {
	v *float64
}

func (o *optionalFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'g', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	o.v = &f
	return nil
}

func (g globals) oneRM(args []string) error {
	fs := g.flagSet("1rm")
	weight := fs.Float64("weight", 0, "weight lifted")
	reps := fs.Float64("reps", 0, "repetitions completed")
	formula := fs.String("formula", "", "epley, brzycki or lombardi (default all)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res, err := newCalculator().OneRepMax(*weight, *reps, *formula)
	if err != nil {
		return err
	}
	if g.json {
		return g.printJSON(res)
	}

	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%g x %g\n", res.Weight, res.Reps)
	for _, e := range res.Estimates {
		fmt.Fprintf(tw, "%s\t%d\n", e.Formula, e.OneRM)
	}
	return tw.Flush()
}

func (g globals) table(args []string) error {
	fs := g.flagSet("table")
	oneRM := fs.Float64("one-rm", 0, "one-rep max")
	pctList := fs.String("pct", "", "comma-separated fractions, e.g. 0.9,0.8")
	var increment optionalFloat
	fs.Var(&increment, "increment", "rounding increment")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var pcts []float64
	if strings.TrimSpace(*pctList) != "" {
		for _, p := range strings.Split(*pctList, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return fmt.Errorf("pct: %q is not a number", p)
			}
			pcts = append(pcts, f)
		}
	}

	res := newCalculator().Percentages(*oneRM, pcts, increment.v)
	if g.json {
		return g.printJSON(res)
	}

	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%g%%\t%g\t\n", row.Pct*100, row.Weight)
	}
	return tw.Flush()
}

func (g globals) warmup(args []string) error {
	fs := g.flagSet("warmup")
	working := fs.Float64("working", 0, "working set weight")
	preset := fs.String("preset", "", "standard or quick")
	var bar, increment optionalFloat
	fs.Var(&bar, "bar", "bar weight")
	fs.Var(&increment, "increment", "rounding increment")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res, err := newCalculator().Warmup(*working, bar.v, increment.v, *preset)
	if err != nil {
		return err
	}
	if g.json {
		return g.printJSON(res)
	}
	if len(res.Sets) == 0 {
		fmt.Fprintln(g.stdout, "no warm-up needed")
		return nil
	}

	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	for _, s := range res.Sets {
		fmt.Fprintf(tw, "%g\tx %d\t%s\n", s.Weight, s.Reps, s.Note)
	}
	return tw.Flush()
}

func (g globals) time(args []string) error {
	if len(args) != 2 {
		fmt.Fprint(g.stderr, "Usage: liftlog-cli time parse <text> | format <seconds>\n")
		return errUsage
	}
	c := newCalculator()

	switch args[0] {
	case "parse":
		res := c.ParseDuration(args[1])
		if g.json {
			if err := g.printJSON(res); err != nil {
				return err
			}
		}
		if !res.OK {
			return fmt.Errorf("invalid time %q: %s", args[1], res.Error)
		}
		if !g.json {
			if res.Seconds == nil {
				fmt.Fprintln(g.stdout, "no value")
			} else {
				fmt.Fprintln(g.stdout, *res.Seconds)
			}
		}
		return nil
	case "format":
		seconds, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("seconds must be an integer: %q", args[1])
		}
		res := c.FormatDuration(seconds)
		if g.json {
			return g.printJSON(res)
		}
		fmt.Fprintln(g.stdout, res.Formatted)
		return nil
	default:
		fmt.Fprintf(g.stderr, "unknown time command %q\n", args[0])
		return errUsage
	}
}
