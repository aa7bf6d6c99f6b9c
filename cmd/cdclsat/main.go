package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/satlab/cdclsat/internal/cdcl"
	"github.com/satlab/cdclsat/internal/config"
	"github.com/satlab/cdclsat/internal/dimacs"
	"github.com/satlab/cdclsat/internal/reporting"
)

func flags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{Name: "quiet, q", Usage: "suppress operational logging"},
		cli.BoolFlag{Name: "verbose, v", Usage: "enable debug-level operational logging"},
		cli.StringFlag{Name: "logging, l", Usage: "write operational logging to this file instead of stderr"},
		cli.BoolFlag{Name: "no-witness, n", Usage: "do not print the satisfying assignment on SAT"},
		cli.IntFlag{Name: "conflict-limit, c", Usage: "conflict budget; negative means unbounded", Value: -1},
		cli.StringFlag{Name: "config", Usage: "optional YAML defaults file"},
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "cdclsat"
	app.Usage = "a CDCL SAT solver"
	app.Flags = flags()
	app.ArgsUsage = "[input-file]"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	defaults, found, err := loadConfig(c)
	if err != nil {
		return err
	}

	conflictLimit := c.Int("conflict-limit")
	if found && defaults.Set["conflict_limit"] && !c.IsSet("conflict-limit") {
		conflictLimit = defaults.ConflictLimit
	}
	witness := !c.Bool("no-witness")
	if found && defaults.Set["witness"] && !c.IsSet("no-witness") {
		witness = defaults.Witness
	}
	logDest := c.String("logging")
	if logDest == "" && found && defaults.Set["log_file"] {
		logDest = defaults.LogFile
	}

	logger, closeLogger, err := buildLogger(c, logDest)
	if err != nil {
		return err
	}
	defer closeLogger()

	in, closeIn, err := openInput(c)
	if err != nil {
		return err
	}
	defer closeIn()

	formula, err := dimacs.Parse(in, dimacs.Options{Strict: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	solver := cdcl.New(formula.NumVars)
	for _, cl := range formula.Clauses {
		solver.AddClause(cl)
	}

	reg := prometheus.NewRegistry()
	metrics := reporting.NewMetrics(reg)
	report := reporting.New(os.Stdout, logger, metrics)

	if c.Bool("verbose") {
		report.ProblemStatistics(formula.NumVars, len(formula.Clauses))
	}

	ctx, cancel, caught := signalContext()
	defer cancel()

	result := solveWithCancellation(ctx, solver, conflictLimit, report)

	if sig := caught.load(); sig != nil {
		report.FinalStatistics(solver.Stats)
		reraiseSignal(sig)
		// reraiseSignal does not return on any platform where the signal
		// is actually fatal; this is reached only if it somehow is not.
		return nil
	}

	if c.Bool("verbose") {
		report.FinalStatistics(solver.Stats)
	}
	report.Result(result, solver.Model(), witness)

	switch result {
	case cdcl.Satisfiable:
		os.Exit(10)
	case cdcl.Unsatisfiable:
		os.Exit(20)
	default:
		os.Exit(0)
	}
	return nil
}

// solveWithCancellation runs the search on its own goroutine, threading
// ctx's cancellation into the solver's own Hooks.Canceled so the core driver
// itself observes and reacts to it (§5's cancellation model), rather than
// this caller racing a result channel against ctx.Done(). g.Wait() is always
// called before reading solver.Stats, so the goroutine has fully stopped
// mutating it before this function returns — there is no point at which
// solver state is read concurrently with the search.
func solveWithCancellation(ctx context.Context, solver *cdcl.Solver, conflictLimit int, report *reporting.Reporter) cdcl.Result {
	g, ctx := errgroup.WithContext(ctx)
	var result cdcl.Result
	g.Go(func() error {
		result = solver.Solve(conflictLimit, cdcl.Hooks{
			Canceled: func() bool { return ctx.Err() != nil },
			Progress: report.Progress,
		})
		return nil
	})
	_ = g.Wait()
	return result
}

// signalContext returns a context canceled on SIGINT/SIGTERM and a capture
// recording which signal actually fired, so the caller can re-raise the
// original signal after printing statistics instead of swallowing it.
func signalContext() (context.Context, context.CancelFunc, *signalCapture) {
	capture := &signalCapture{}
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			capture.store(sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel, capture
}

// signalCapture records the signal caught by signalContext's goroutine
// under an atomic.Value, since it is written from that goroutine and read
// from run() on the main one.
type signalCapture struct {
	sig atomic.Value
}

func (c *signalCapture) store(sig os.Signal) { c.sig.Store(sig) }

func (c *signalCapture) load() os.Signal {
	v := c.sig.Load()
	if v == nil {
		return nil
	}
	return v.(os.Signal)
}

// reraiseSignal resets sig's handler to the default and re-delivers it to
// this process, matching the original solver's catch_signal: reset the
// handler, report, then raise(sig) so the shell sees the real termination
// cause rather than a plain exit code.
func reraiseSignal(sig os.Signal) {
	signal.Reset(sig)
	if s, ok := sig.(syscall.Signal); ok {
		syscall.Kill(os.Getpid(), s)
	}
}

func loadConfig(c *cli.Context) (*config.Defaults, bool, error) {
	path := c.String("config")
	if path == "" {
		return nil, false, nil
	}
	return config.LoadFile(path)
}

func buildLogger(c *cli.Context, dest string) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	noop := func() {}

	if c.Bool("quiet") {
		logger.SetOutput(io.Discard)
		return logger, noop, nil
	}
	if c.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	if dest == "" {
		logger.SetOutput(os.Stderr)
		return logger, noop, nil
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, errors.Wrapf(err, "opening log destination %s", dest)
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}

func openInput(c *cli.Context) (io.Reader, func(), error) {
	path := c.Args().First()
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, errors.Wrapf(err, "opening input file %s", path)
	}
	return f, func() { f.Close() }, nil
}
