package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/dataflow"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/liveness"
	"github.com/cs-au-dk/flow/analysis/nullness"
	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/utils"

	"github.com/fatih/color"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalln("No input files given")
	}

	pl := pipeline{
		ctx:  context.Background(),
		lang: opts.Lang(),
		fun:  opts.Function(),
	}

	stats := &metrics{}
	run := newRunner(stats)
	failed := false
	for _, path := range files {
		utils.VerbosePrint("Loading %s\n", utils.FileString(path))

		unit, err := pl.load(path)
		if err != nil {
			log.Println(err)
			failed = true
			continue
		}

		routines, err := pl.routines(unit)
		if err != nil {
			log.Println(err)
			failed = true
			continue
		}

		for _, r := range routines {
			if err := run.task(os.Stdout, r); err != nil {
				log.Printf("%s: %v\n", utils.RoutineString(r.Name), err)
				failed = true
			}
		}
	}

	opts.OnVerbose(func() {
		stats.print(os.Stdout)
	})

	if failed {
		os.Exit(1)
	}
}

// runner holds the analyses of a run. Every routine is solved by the same
// analysis, which keeps the results of the latest routine only.
type runner struct {
	stats *metrics
	live  *dataflow.Analysis[lattice.NameSet]
	null  *dataflow.Analysis[nullness.Env]
}

func newRunner(stats *metrics) *runner {
	live := liveness.NewAnalysis(opts.LiveOut(),
		dataflow.OnSolved(solution[lattice.NameSet](stats)))
	null := nullness.NewAnalysis(nullnessConfig(),
		dataflow.OnSolved(solution[nullness.Env](stats)))
	return &runner{stats, live, null}
}

// task executes the selected task on one routine.
func (run *runner) task(w io.Writer, r *syntax.Routine) error {
	defer utils.TimeTrack(time.Now(), task.String()+" on "+r.Name)

	switch {
	case task.IsPrintCfg():
		g, err := cfg.Build(r)
		if err != nil {
			return err
		}
		run.stats.graph(g)
		printCfg(w, g)

	case task.IsCheckCfg():
		g, err := cfg.Build(r)
		if err != nil {
			return err
		}
		run.stats.graph(g)
		if err := g.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(w, utils.RoutineString(r.Name)+":", color.GreenString("ok"),
			fmt.Sprintf("(%d nodes, %d edges)", g.Len(), len(g.Edges())))

	case task.IsCfgToDot():
		g, err := cfg.Build(r)
		if err != nil {
			return err
		}
		run.stats.graph(g)
		if opts.Visualize() {
			g.ToDot().ShowDot()
			return nil
		}
		img, err := g.Visualize(opts.OutDir(), opts.OutputFormat())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, utils.RoutineString(r.Name)+":", utils.FileString(img))

	case task.IsLiveness():
		return reportLiveness(w, run.live, r)

	case task.IsNullness():
		return reportNullness(w, run.null, r)

	case task.IsDeadBranches():
		return reportDeadBranches(w, run.null, r)

	default:
		return errors.New("no task selected")
	}
	return nil
}

func nullnessConfig() nullness.Config {
	return nullness.Config{
		NonNullParams: opts.NonNullParams(),
		NonNull:       opts.NonNull(),
	}
}

func printCfg(w io.Writer, g *cfg.Graph) {
	fmt.Fprintln(w, utils.RoutineString(g.Routine().Name)+":")
	g.WriteTo(w)
	fmt.Fprintln(w)
}

// statements lists the statements of r that own control-flow nodes, in source
// order.
func statements(g *cfg.Graph) []syntax.Construct {
	var res []syntax.Construct
	syntax.Walk(g.Routine().Body, func(c syntax.Construct) bool {
		switch c.Kind() {
		case syntax.KindBlock, syntax.KindCase, syntax.KindCatch:
			return true
		}
		if c.Kind() >= syntax.KindName {
			return false
		}
		if _, ok := g.EntryOf(c); ok {
			res = append(res, c)
		}
		return true
	})
	return res
}

func statementHeader(c syntax.Construct) string {
	return fmt.Sprintf("  %-6d %s", c.Span().Line, utils.SourceString(syntax.Summary(c)))
}

func reportLiveness(w io.Writer, a *dataflow.Analysis[lattice.NameSet], r *syntax.Routine) error {
	sol, err := a.Solve(r)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, utils.RoutineString(r.Name)+":")
	for _, s := range statements(sol.Graph()) {
		entry, _ := sol.Graph().EntryOf(s)
		fmt.Fprintln(w, statementHeader(s))
		fmt.Fprintln(w, "         live:", sol.Before(entry))
	}

	unused, err := liveness.Unused(a, r)
	if err != nil {
		return err
	}
	for _, c := range unused {
		fmt.Fprintf(w, "  %s %s is never read\n",
			color.YellowString("warning:"), utils.SourceString(syntax.Summary(c)))
	}
	fmt.Fprintln(w)
	return nil
}

func reportNullness(w io.Writer, a *dataflow.Analysis[nullness.Env], r *syntax.Routine) error {
	sol, err := a.Solve(r)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, utils.RoutineString(r.Name)+":")
	for _, s := range statements(sol.Graph()) {
		after, err := a.ResultsAfter(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, statementHeader(s))
		fmt.Fprintln(w, "         after:", after)
	}
	fmt.Fprintln(w)
	return nil
}

func reportDeadBranches(w io.Writer, a *dataflow.Analysis[nullness.Env], r *syntax.Routine) error {
	dead, err := nullness.DeadBranches(a, r)
	if err != nil {
		return err
	}

	if len(dead) == 0 {
		opts.OnVerbose(func() {
			fmt.Fprintln(w, utils.RoutineString(r.Name)+":", color.GreenString("no dead branches"))
		})
		return nil
	}

	fmt.Fprintln(w, utils.RoutineString(r.Name)+":")
	for _, d := range dead {
		fmt.Fprintf(w, "  %s %s\n", color.HiRedString("dead:"), d)
	}
	return nil
}
