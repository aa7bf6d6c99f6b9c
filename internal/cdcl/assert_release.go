//go:build !debug

package cdcl

// invariant is a no-op in release builds; invariant checking only compiles
// in under the debug build tag.
func invariant(cond bool, msg string, ctx ...interface{}) {}
