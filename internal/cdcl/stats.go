package cdcl

// Statistics are plain scalar fields updated in place, with no atomics or
// locking of their own. Solve itself never spawns a goroutine, so nothing
// inside this package ever touches Stats concurrently; a caller that runs
// Solve on its own goroutine (for cancellation, say) must still join that
// goroutine before reading Stats; it must not try to read partial progress
// from another goroutine while Solve is running — use Hooks.Progress for
// that instead, which is called synchronously from inside Solve's own loop.
type Statistics struct {
	Decisions      uint64
	Propagations   uint64
	Conflicts      uint64
	Backjumps      uint64
	OriginalClauses uint64
	LearntClauses   uint64
}
