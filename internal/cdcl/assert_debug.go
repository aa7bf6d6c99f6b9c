//go:build debug

package cdcl

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
)

// invariant panics with the violated condition and a pretty-printed dump of
// ctx when cond is false. Built in with the debug build tag only; release
// builds compile this to a no-op (see assert_release.go). This is the
// solver's only mechanism for surfacing InvariantViolation: a bug, not a
// recoverable error.
func invariant(cond bool, msg string, ctx ...interface{}) {
	if cond {
		return
	}
	for _, c := range ctx {
		pp.Println(c)
	}
	panic(fmt.Sprintf("invariant violation: %s", msg))
}
