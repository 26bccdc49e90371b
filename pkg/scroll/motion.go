package scroll

// MotionQuery is the user's reduced-motion preference with change
// notification. It is not safe for concurrent use; owners serialize access
// through their event loop.
type MotionQuery struct {
	reduced bool
	subs    map[int]func(reduced bool)
	next    int
}

// NewMotionQuery creates a query with the given initial preference.
func NewMotionQuery(reduced bool) *MotionQuery {
	return &MotionQuery{reduced: reduced, subs: make(map[int]func(bool))}
}

// Reduced reports whether reduced motion is preferred.
func (q *MotionQuery) Reduced() bool { return q.reduced }

// Set changes the preference and notifies subscribers if it changed.
func (q *MotionQuery) Set(reduced bool) {
	if q.reduced == reduced {
		return
	}
	q.reduced = reduced
	for i := 0; i < q.next; i++ {
		if fn, ok := q.subs[i]; ok {
			fn(reduced)
		}
	}
}

// Toggle flips the preference.
func (q *MotionQuery) Toggle() { q.Set(!q.reduced) }

// Subscribe registers fn for changes and returns a function removing it.
func (q *MotionQuery) Subscribe(fn func(reduced bool)) (cancel func()) {
	id := q.next
	q.next++
	q.subs[id] = fn
	return func() { delete(q.subs, id) }
}
