package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/satlab/cdclsat/internal/cdcl"
)

func TestResultPrintsWitnessOnSatisfiable(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil, nil)

	model := []cdcl.Value{cdcl.Undef, cdcl.True, cdcl.False}
	r.Result(cdcl.Satisfiable, model, true)

	out := buf.String()
	require.True(t, strings.Contains(out, "s SATISFIABLE"))
	require.True(t, strings.Contains(out, "v 1 -2 0"))
}

func TestResultOmitsWitnessWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil, nil)

	model := []cdcl.Value{cdcl.Undef, cdcl.True}
	r.Result(cdcl.Satisfiable, model, false)

	require.False(t, strings.Contains(buf.String(), "v "))
}

func TestResultPrintsNoStatusLineOnUnknown(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil, nil)

	r.Result(cdcl.Unknown, nil, true)

	require.False(t, strings.Contains(buf.String(), "s "))
}

func TestProgressIsRateLimitedWithinTheSameSecond(t *testing.T) {
	var logBuf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logBuf)
	log.SetLevel(logrus.DebugLevel)

	r := New(&bytes.Buffer{}, log, nil)

	r.Progress(cdcl.Statistics{Decisions: 1})
	r.Progress(cdcl.Statistics{Decisions: 2})
	r.Progress(cdcl.Statistics{Decisions: 3})

	out := logBuf.String()
	require.Equal(t, 1, strings.Count(out, "search progress"))
}

func TestProblemStatisticsMentionsCounts(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil, nil)

	r.ProblemStatistics(10, 42)

	out := buf.String()
	require.True(t, strings.Contains(out, "10"))
	require.True(t, strings.Contains(out, "42"))
}
