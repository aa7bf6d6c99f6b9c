package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"

	"github.com/satlab/cdclsat/internal/cdcl"
)

func TestParseAcceptsAWellFormedFormula(t *testing.T) {
	input := `c a comment
p cnf 3 2
1 -2 0
2 3 0
`
	f, err := Parse(strings.NewReader(input), Options{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Formula{
		NumVars: 3,
		Clauses: [][]cdcl.Lit{
			{1, -2},
			{2, 3},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("parsed formula mismatch (-want +got):\n%s\n%s", diff, pretty.Sprint(f))
	}
}

func TestParseRejectsAMissingHeaderInStrictMode(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 0\n"), Options{Strict: true})
	if err == nil {
		t.Fatalf("expected an error for a missing header in strict mode")
	}
}

func TestParseNonStrictInfersHeaderlessFormulas(t *testing.T) {
	f, err := Parse(strings.NewReader("1 2 0\n-1 0\n"), Options{Strict: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.NumVars != 2 || len(f.Clauses) != 2 {
		t.Fatalf("got %+v", f)
	}
}

func TestParseRejectsALiteralExceedingTheDeclaredVariableCount(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 1 1\n1 2 0\n"), Options{Strict: true})
	if err == nil {
		t.Fatalf("expected an error for a literal exceeding the declared variable count")
	}
}

func TestParseRejectsAClauseCountMismatch(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 2 2\n1 2 0\n"), Options{Strict: true})
	if err == nil {
		t.Fatalf("expected an error for a clause-count mismatch")
	}
}

func TestParseRejectsAnUnterminatedClause(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 2 1\n1 2"), Options{Strict: true})
	if err == nil {
		t.Fatalf("expected an error for a clause missing its terminating 0")
	}
}
