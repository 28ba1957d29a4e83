// Package locks provides a short-lived, in-process submit guard used to
// debounce duplicate submissions for the same record from a single client
// process. It is a latency optimization only: cross-process exclusion is
// guaranteed by the transactional re-check in the claim and advance
// handlers, never by this guard.
package locks

import "sync"

// SubmitGuard tracks record identifiers with an in-flight submission.
// A second submission for the same identifier is rejected until the first
// one releases it. Safe for concurrent use.
type SubmitGuard struct {
	mu         sync.Mutex
	submitting map[string]struct{}
}

// NewSubmitGuard creates an empty SubmitGuard.
func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{
		submitting: make(map[string]struct{}),
	}
}

// TryAcquire marks id as submitting. Returns false if a submission for id
// is already in flight.
func (g *SubmitGuard) TryAcquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.submitting[id]; busy {
		return false
	}
	g.submitting[id] = struct{}{}
	return true
}

// Release removes id from the submitting set. Releasing an id that is not
// held is a no-op, so callers can release unconditionally in a defer.
func (g *SubmitGuard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.submitting, id)
}
