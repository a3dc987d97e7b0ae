package feed

import "github.com/Diferti/swibee/internal/domain"

// session is one user's feed queue plus swipe state. Only the engine actor
// goroutine touches it.
type session struct {
	criteria domain.FilterCriteria
	// generation stamps every off-actor operation (page fetch, deferred
	// commit) issued for this criteria value; a criteria change bumps it so
	// stale results are discarded when they re-enter the actor.
	generation uint64

	buffer []domain.Item
	// seen holds every item ID ever observed for this criteria value,
	// including ones dropped at append time. Dedup across pages, and the
	// reason a removed decision does not re-admit an item until the queue
	// is rebuilt.
	seen   map[string]struct{}
	cursor int

	nextToken string
	hasMore   bool
	// fetchInFlight is the single-flight guard: at most one page fetch per
	// criteria at any time.
	fetchInFlight bool
	fetchedOnce   bool
	// firstPageFailed marks that the initial fetch for this criteria failed
	// with nothing buffered; the only case where the feed surfaces an error.
	firstPageFailed bool

	// committing locks the swipe state machine between verdict acceptance
	// and commit; verdicts arriving inside the window are dropped.
	committing bool
}

func newSession(criteria domain.FilterCriteria, generation uint64) *session {
	return &session{
		criteria:   criteria,
		generation: generation,
		seen:       make(map[string]struct{}),
		hasMore:    true,
	}
}

// remaining is the number of buffered items at or ahead of the cursor.
func (s *session) remaining() int {
	return len(s.buffer) - s.cursor
}
