// Package dimacs reads the DIMACS CNF format of §6: an optional run of
// comment lines, one header line declaring the variable and clause counts,
// then a whitespace-separated stream of signed integers terminated by 0.
package dimacs

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/satlab/cdclsat/internal/cdcl"
)

// Formula is a parsed CNF instance: the declared variable count and the
// clauses in file order, each already converted to cdcl.Lit values.
type Formula struct {
	NumVars int
	Clauses [][]cdcl.Lit
}

// Options configures parsing. Options{Strict: true} matches §6 exactly: a
// required header, comments only as whole lines starting with "c", and a
// hard error on any literal whose magnitude exceeds NumVars or on a
// clause-count mismatch. The zero value (Strict false) selects the
// permissive dialect described on Strict.
type Options struct {
	// Strict, when false, additionally accepts a missing header (the
	// variable count is then inferred from the literals seen) and
	// trailing-token comments starting with "c" anywhere a token is
	// expected, matching the more permissive dialect cespare/saturday's
	// parser accepts. Strict must be set to true for the DIMACS-exact mode.
	Strict bool
}

// Parse reads a DIMACS CNF formula from r. On any violation of §6's input
// contract it returns an error annotated with the offending line number.
func Parse(r io.Reader, opts Options) (*Formula, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &parser{sc: sc, strict: opts.Strict}
	return p.run()
}

type parser struct {
	sc       *bufio.Scanner
	strict   bool
	lineNo   int
	declVars int
	declCls  int
	sawHdr   bool
}

func (p *parser) run() (*Formula, error) {
	f := &Formula{}
	var pending []cdcl.Lit
	clausesSeen := 0

	for p.sc.Scan() {
		p.lineNo++
		line := strings.TrimSpace(p.sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			if err := p.parseHeader(line); err != nil {
				return nil, err
			}
			f.NumVars = p.declVars
			continue
		}
		if !p.sawHdr && p.strict {
			return nil, p.errf("clause literal before header line")
		}

		for _, tok := range strings.Fields(line) {
			if !p.strict && strings.HasPrefix(tok, "c") {
				break // the rest of the line is a comment
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, p.errf("malformed literal %q: %v", tok, err)
			}
			if n == 0 {
				f.Clauses = append(f.Clauses, pending)
				clausesSeen++
				pending = nil
				continue
			}
			mag := n
			if mag < 0 {
				mag = -mag
			}
			if p.sawHdr && mag > p.declVars {
				return nil, p.errf("literal %d exceeds declared variable count %d", n, p.declVars)
			}
			if mag > f.NumVars {
				f.NumVars = mag
			}
			pending = append(pending, cdcl.Lit(n))
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, errors.Wrap(err, "dimacs: reading input")
	}
	if len(pending) != 0 {
		return nil, p.errf("clause not terminated by 0")
	}
	if !p.sawHdr {
		if p.strict {
			return nil, p.errf("missing header line (expected \"p cnf <vars> <clauses>\")")
		}
		p.declCls = clausesSeen
	}
	if clausesSeen != p.declCls {
		return nil, p.errf("declared %d clauses but found %d", p.declCls, clausesSeen)
	}
	return f, nil
}

func (p *parser) parseHeader(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
		return p.errf("malformed header %q, expected \"p cnf <vars> <clauses>\"", line)
	}
	vars, err := strconv.Atoi(fields[2])
	if err != nil || vars < 0 {
		return p.errf("malformed variable count in header %q", line)
	}
	clauses, err := strconv.Atoi(fields[3])
	if err != nil || clauses < 0 {
		return p.errf("malformed clause count in header %q", line)
	}
	p.declVars = vars
	p.declCls = clauses
	p.sawHdr = true
	return nil
}

func (p *parser) errf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.Errorf(format, args...), "dimacs: line %d", p.lineNo)
}
