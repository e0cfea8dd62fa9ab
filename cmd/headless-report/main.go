package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/tank-duel/internal/config"
	"github.com/Garsondee/tank-duel/internal/game"
	"github.com/Garsondee/tank-duel/internal/store"
)

type reportOptions struct {
	frames      bool // print every frame as text
	ansi        bool // colour tanks in printed frames
	events      bool // print the event log of each run
	verbose     bool // include per-tick action and move events
	rotateP2    bool // turn player 2's starting facing one eighth per run
	listStored  int  // list this many stored matches and exit
	reportTicks int  // event window of the final debug report
}

func (o *reportOptions) bind(fs *flag.FlagSet) {
	fs.BoolVar(&o.frames, "frames", false, "print every frame")
	fs.BoolVar(&o.ansi, "ansi", false, "colour printed frames")
	fs.BoolVar(&o.events, "events", false, "print the event log of each run")
	fs.BoolVar(&o.verbose, "verbose", false, "log per-tick actions and moves")
	fs.BoolVar(&o.rotateP2, "rotate-p2", false, "turn player 2's starting facing one eighth per run")
	fs.IntVar(&o.listStored, "list", 0, "list this many stored matches and exit")
	fs.IntVar(&o.reportTicks, "report-ticks", 0, "print a debug report covering the last N ticks of each run")
}

// runResult is one played match plus what the store needs.
type runResult struct {
	summary game.MatchSummary
	steps   []game.StepRecord
	log     *game.SimLog
	final   game.Frame
}

func main() {
	var opts reportOptions
	cfg, err := config.Parse("headless-report", os.Args[1:], os.Stderr, opts.bind)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr, "report")
	ctx := context.Background()

	var st *store.Store
	if cfg.Store != "" {
		st, err = store.Open(ctx, cfg.Store)
		if err != nil {
			logger.Fatal("cannot open store", "path", cfg.Store, "err", err)
		}
		defer st.Close()
	}

	if opts.listStored > 0 {
		if st == nil {
			logger.Fatal("-list needs -store")
		}
		if err := listStored(ctx, os.Stdout, st, opts.listStored); err != nil {
			logger.Fatal("cannot list matches", "err", err)
		}
		return
	}

	grid, err := cfg.LoadBoard(logger)
	if err != nil {
		logger.Fatal("cannot load board", "err", err)
	}

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("board=%s runs=%d max_ticks=%d p1=%s p2=%s\n\n",
		cfg.Board, cfg.Runs, cfg.MaxTicks, cfg.Player1.Policy, cfg.Player2.Policy)

	br, err := runBatch(ctx, cfg, grid, opts, os.Stdout, st, logger)
	if err != nil {
		logger.Fatal("batch failed", "err", err)
	}
	fmt.Print(br.Format())
}

// runBatch plays cfg.Runs matches, printing one line per run, and saves each
// to st when it is non-nil.
func runBatch(ctx context.Context, cfg *config.Config, grid *game.Grid, opts reportOptions, out io.Writer, st *store.Store, logger *log.Logger) (game.BatchReport, error) {
	var br game.BatchReport
	for i := 1; i <= cfg.Runs; i++ {
		rr, err := runMatch(cfg, grid, i, opts, out)
		if err != nil {
			return br, fmt.Errorf("run %d: %w", i, err)
		}
		br.Add(rr.summary)
		fmt.Fprintln(out, rr.summary.Line())
		if opts.events {
			fmt.Fprint(out, rr.log.Format())
		}
		if opts.reportTicks > 0 {
			fmt.Fprint(out, game.DebugReport(rr.final, rr.log, opts.reportTicks))
		}

		if st == nil {
			continue
		}
		id, err := st.SaveMatch(ctx, store.MatchRecord{
			Board:    cfg.Board,
			Policies: [2]string{cfg.Player1.Policy, cfg.Player2.Policy},
			Summary:  rr.summary,
			Steps:    rr.steps,
		})
		if err != nil {
			return br, fmt.Errorf("save run %d: %w", i, err)
		}
		logger.Info("match saved", "run", i, "id", id, "steps", len(rr.steps))
	}
	fmt.Fprintln(out)
	return br, nil
}

// runMatch plays one match. With rotateP2 set, player 2 starts facing its
// configured direction turned (run-1) eighths clockwise.
func runMatch(cfg *config.Config, grid *game.Grid, run int, opts reportOptions, out io.Writer) (runResult, error) {
	sl := game.NewSimLog(opts.verbose)
	var extra []game.EngineOption
	if opts.rotateP2 {
		extra = append(extra, game.WithFacingTurn(2, run-1))
	}
	m, err := cfg.NewMatch(grid, sl, extra...)
	if err != nil {
		return runResult{}, err
	}

	var rr runResult
	m.OnStep = func(sr game.StepRecord) {
		rr.steps = append(rr.steps, sr)
		if opts.frames {
			fmt.Fprintf(out, "--- tick %d: P1 %s, P2 %s ---\n", sr.Tick, sr.Actions[0], sr.Actions[1])
			fmt.Fprint(out, game.Render(m.Engine.Snapshot(), opts.ansi))
		}
	}
	m.Run(cfg.MaxTicks)

	rr.summary = game.Summarize(run, m.Engine)
	rr.log = sl
	rr.final = m.Engine.Snapshot()
	return rr, nil
}

func listStored(ctx context.Context, out io.Writer, st *store.Store, limit int) error {
	rows, err := st.ListMatches(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "=== Stored Matches (%d) ===\n", len(rows))
	for _, r := range rows {
		result := r.Result
		if result == "" {
			result = "inconclusive (tick cap reached)"
		}
		fmt.Fprintf(out, "%s %s ticks=%4d %-10s vs %-10s %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Ticks, r.Policies[0], r.Policies[1], result)
	}
	return nil
}
