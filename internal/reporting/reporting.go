// Package reporting prints the solver protocol's "c "-prefixed statistics
// block and drives the operational logging, rate-limited progress ticking,
// and Prometheus metrics export that sit alongside it. Protocol output and
// operational logging are kept on separate streams: this package writes
// protocol lines directly with fmt.Fprintf and never routes them through
// the logger.
package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/satlab/cdclsat/internal/cdcl"
)

// Metrics holds the Prometheus collectors exported for a solve. NewMetrics
// registers them against a registry the caller supplies; a Reporter also
// accepts nil Metrics, so tests and one-shot CLI runs that don't want a
// registry need none.
type Metrics struct {
	Decisions    prometheus.Counter
	Propagations prometheus.Counter
	Conflicts    prometheus.Counter
	Backjumps    prometheus.Counter
	LearntClauses prometheus.Counter
}

// NewMetrics builds and registers the solver's counters against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions:     prometheus.NewCounter(prometheus.CounterOpts{Name: "cdclsat_decisions_total"}),
		Propagations: prometheus.NewCounter(prometheus.CounterOpts{Name: "cdclsat_propagations_total"}),
		Conflicts:     prometheus.NewCounter(prometheus.CounterOpts{Name: "cdclsat_conflicts_total"}),
		Backjumps:     prometheus.NewCounter(prometheus.CounterOpts{Name: "cdclsat_backjumps_total"}),
		LearntClauses: prometheus.NewCounter(prometheus.CounterOpts{Name: "cdclsat_learnt_clauses_total"}),
	}
	reg.MustRegister(m.Decisions, m.Propagations, m.Conflicts, m.Backjumps, m.LearntClauses)
	return m
}

// observe reconciles the counters (which only go up) with the solver's plain
// scalar statistics (which are re-read, not accumulated) by adding the
// delta since the last observation.
func (m *Metrics) observe(prev, cur cdcl.Statistics) {
	if m == nil {
		return
	}
	m.Decisions.Add(float64(cur.Decisions - prev.Decisions))
	m.Propagations.Add(float64(cur.Propagations - prev.Propagations))
	m.Conflicts.Add(float64(cur.Conflicts - prev.Conflicts))
	m.Backjumps.Add(float64(cur.Backjumps - prev.Backjumps))
	m.LearntClauses.Add(float64(cur.LearntClauses - prev.LearntClauses))
}

// Reporter owns the protocol output writer, the operational logger, and an
// optional metrics sink. It is grounded on the teacher's
// printProblemStatistics/printStatistics pair, generalized to a method set
// so the CLI can own the writer and logger lifetime.
type Reporter struct {
	out     io.Writer
	log     *logrus.Logger
	metrics *Metrics
	limiter *rate.Limiter
	started time.Time
	last    cdcl.Statistics
}

// New builds a Reporter. log may be nil, in which case a logger discarding
// everything is used (the -q/--quiet case); metrics may be nil to disable
// export entirely.
func New(out io.Writer, log *logrus.Logger, metrics *Metrics) *Reporter {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Reporter{
		out:     out,
		log:     log,
		metrics: metrics,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		started: timeNow(),
	}
}

// timeNow is indirected so tests can observe deterministic elapsed-time
// formatting without depending on wall-clock time.
var timeNow = time.Now

// ProblemStatistics prints the pre-search header, mirroring the teacher's
// printProblemStatistics.
func (r *Reporter) ProblemStatistics(numVars, numClauses int) {
	fmt.Fprintf(r.out, "c ============================[ Problem Statistics ]=============================\n")
	fmt.Fprintf(r.out, "c |  Number of variables:  %12d                                         |\n", numVars)
	fmt.Fprintf(r.out, "c |  Number of clauses:    %12d                                         |\n", numClauses)
	fmt.Fprintf(r.out, "c ================================================================================\n")
}

// FinalStatistics prints the post-search footer, mirroring the teacher's
// printStatistics. Unlike the teacher, there is no restart or reduceDB
// count to print: those mechanisms do not exist in this search driver.
func (r *Reporter) FinalStatistics(stats cdcl.Statistics) {
	elapsed := timeNow().Sub(r.started).Seconds()
	fmt.Fprintf(r.out, "c ================================================================================\n")
	fmt.Fprintf(r.out, "c decisions:     %12d (%.02f / sec)\n", stats.Decisions, rate64(stats.Decisions, elapsed))
	fmt.Fprintf(r.out, "c propagations:  %12d (%.02f / sec)\n", stats.Propagations, rate64(stats.Propagations, elapsed))
	fmt.Fprintf(r.out, "c conflicts:     %12d (%.02f / sec)\n", stats.Conflicts, rate64(stats.Conflicts, elapsed))
	fmt.Fprintf(r.out, "c backjumps:     %12d\n", stats.Backjumps)
	fmt.Fprintf(r.out, "c learnt clauses:%12d\n", stats.LearntClauses)
	fmt.Fprintf(r.out, "c cpu time:      %12f\n", elapsed)
	r.metrics.observe(r.last, stats)
	r.last = stats
}

func rate64(n uint64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(n) / seconds
}

// Progress is meant to be passed straight through as a cdcl.Hooks.Progress
// value: the search driver calls it on every loop iteration with no
// throttling of its own, so the limiter here is what keeps actual log/export
// work down to roughly once a second regardless of how fast the solver is
// cutting through decisions and propagations.
func (r *Reporter) Progress(stats cdcl.Statistics) {
	if !r.limiter.Allow() {
		return
	}
	r.log.WithFields(logrus.Fields{
		"decisions": stats.Decisions,
		"conflicts": stats.Conflicts,
	}).Debug("search progress")
	r.metrics.observe(r.last, stats)
	r.last = stats
}

// Result prints the single status line and, when witness is true and the
// result is satisfiable, the value line. Exactly matches §6's output
// contract: undetermined variables already default to positive by the time
// Model is captured.
func (r *Reporter) Result(result cdcl.Result, model []cdcl.Value, witness bool) {
	fmt.Fprintln(r.out)
	switch result {
	case cdcl.Satisfiable:
		fmt.Fprintln(r.out, "s SATISFIABLE")
		if witness {
			r.printModel(model)
		}
	case cdcl.Unsatisfiable:
		fmt.Fprintln(r.out, "s UNSATISFIABLE")
	default:
		// No status line on unknown, per §6.
	}
}

func (r *Reporter) printModel(model []cdcl.Value) {
	fmt.Fprint(r.out, "v ")
	for v := 1; v < len(model); v++ {
		if model[v] == cdcl.True {
			fmt.Fprintf(r.out, "%d ", v)
		} else {
			fmt.Fprintf(r.out, "%d ", -v)
		}
	}
	fmt.Fprint(r.out, "0\n")
}

// Logger exposes the operational logger for callers outside this package
// (parse diagnostics, CLI-level warnings) that must share its configured
// level and output destination.
func (r *Reporter) Logger() *logrus.Logger { return r.log }
