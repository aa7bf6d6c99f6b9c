package cdcl

// WatchIndex maps a literal to the ordered sequence of clause handles
// currently watching it. Order is not semantically meaningful; the
// propagator compacts the list in place when removing entries. The blocker-literal
// cache some watched-literal implementations add is deliberately not
// present here — the spec calls it out as an optional optimization outside
// the core contract.
type WatchIndex struct {
	lists *litIndexed[[]ClauseRef]
}

func NewWatchIndex(n int) *WatchIndex {
	return &WatchIndex{lists: newLitIndexed[[]ClauseRef](n)}
}

// Append adds a clause to the watch list of literal l.
func (w *WatchIndex) Append(l Lit, ref ClauseRef) {
	p := w.lists.ptr(l)
	*p = append(*p, ref)
}

// ListPtr returns a pointer to the watch list backing literal l, so the
// propagator can compact it in place (write-forward) while it is being
// iterated.
func (w *WatchIndex) ListPtr(l Lit) *[]ClauseRef {
	return w.lists.ptr(l)
}

// RemoveAt removes the watcher at index i from literal l's list using a
// swap-with-last, for use outside the propagator's own compacting scan
// (e.g. should a clause ever need to be detached from its watches).
func (w *WatchIndex) RemoveAt(l Lit, i int) {
	p := w.lists.ptr(l)
	last := len(*p) - 1
	(*p)[i] = (*p)[last]
	*p = (*p)[:last]
}

// Remove deletes the first watcher for ref from literal l's list.
func (w *WatchIndex) Remove(l Lit, ref ClauseRef) {
	p := w.lists.ptr(l)
	for i, r := range *p {
		if r == ref {
			w.RemoveAt(l, i)
			return
		}
	}
}
