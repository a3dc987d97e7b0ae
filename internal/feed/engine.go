package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/Diferti/swibee/internal/domain"
	"github.com/Diferti/swibee/internal/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Provider is the subset of the catalog contract the engine needs.
type Provider interface {
	SearchPage(ctx context.Context, query domain.SearchQuery) (*domain.CatalogPage, error)
}

// DecisionRecorder is the subset of the decision store the engine needs.
type DecisionRecorder interface {
	Record(userID uuid.UUID, item domain.Item, decision domain.Decision)
	IsExcluded(userID uuid.UUID, itemID string) bool
}

// Options are the engine tunables. The zero value is not usable; wire values
// from config.
type Options struct {
	// PageSize is the number of items requested per provider page.
	PageSize int
	// Lookahead is how many undecided items may remain ahead of the cursor
	// before the next page fetch fires.
	Lookahead int
	// CommitDelay holds the Committing lock open after a verdict is accepted,
	// covering the presentation layer's card animation. Zero commits inline.
	CommitDelay time.Duration
}

// --- Command types ---

type engineCmd interface{ engineCmd() }

type cmdEnsure struct {
	userID   uuid.UUID
	criteria domain.FilterCriteria
}

func (cmdEnsure) engineCmd() {}

type cmdNext struct {
	userID  uuid.UUID
	replyCh chan domain.FeedView
}

func (cmdNext) engineCmd() {}

type cmdSwipe struct {
	userID  uuid.UUID
	verdict domain.Verdict
	replyCh chan domain.SwipeResult
}

func (cmdSwipe) engineCmd() {}

type cmdCommit struct {
	userID     uuid.UUID
	generation uint64
	item       domain.Item
	itemIndex  int
	decision   domain.Decision
}

func (cmdCommit) engineCmd() {}

type cmdPageResult struct {
	userID     uuid.UUID
	generation uint64
	page       *domain.CatalogPage
	err        error
}

func (cmdPageResult) engineCmd() {}

type cmdEndSession struct {
	userID uuid.UUID
}

func (cmdEndSession) engineCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) engineCmd() {}

// --- Engine ---

type Engine struct {
	cmdCh     chan engineCmd
	provider  Provider
	decisions DecisionRecorder
	clock     clockwork.Clock
	opts      Options

	// Actor-owned state; touched only by run().
	sessions   map[uuid.UUID]*session
	generation uint64
}

func NewEngine(provider Provider, decisions DecisionRecorder, clock clockwork.Clock, opts Options) *Engine {
	return &Engine{
		cmdCh:     make(chan engineCmd, 256),
		provider:  provider,
		decisions: decisions,
		clock:     clock,
		opts:      opts,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// Start begins the engine's actor goroutine.
func (e *Engine) Start() {
	go e.run()
}

func (e *Engine) run() {
	for cmd := range e.cmdCh {
		metrics.EngineCommandChannelDepth.Set(float64(len(e.cmdCh)))

		switch c := cmd.(type) {
		case cmdEnsure:
			e.handleEnsure(c)

		case cmdNext:
			c.replyCh <- e.handleNext(c.userID)

		case cmdSwipe:
			c.replyCh <- e.handleSwipe(c)

		case cmdCommit:
			e.handleCommit(c)

		case cmdPageResult:
			e.handlePageResult(c)

		case cmdEndSession:
			if _, ok := e.sessions[c.userID]; ok {
				delete(e.sessions, c.userID)
				metrics.ActiveFeedSessions.Set(float64(len(e.sessions)))
			}
			e.updateDepthGauge()

		case cmdStop:
			close(c.doneCh)
			return
		}
	}
}

// handleEnsure creates the session on first use and rebuilds it whenever the
// criteria changed: buffer and cursor are replaced atomically, and the
// generation bump orphans any in-flight fetch for the old criteria.
func (e *Engine) handleEnsure(c cmdEnsure) {
	sess, ok := e.sessions[c.userID]
	if ok && sess.criteria.Equal(c.criteria) {
		return
	}

	if ok {
		slog.Info("Feed criteria changed, rebuilding queue", "user_id", c.userID)
	}

	e.generation++
	sess = newSession(c.criteria, e.generation)
	e.sessions[c.userID] = sess
	metrics.ActiveFeedSessions.Set(float64(len(e.sessions)))

	e.maybeFetch(c.userID, sess)
	e.updateDepthGauge()
}

func (e *Engine) handleNext(userID uuid.UUID) domain.FeedView {
	sess, ok := e.sessions[userID]
	if !ok {
		return domain.FeedView{Status: domain.FeedLoading}
	}

	e.skipDecided(userID, sess)
	e.maybeFetch(userID, sess)

	view := domain.FeedView{
		Buffered: len(sess.buffer),
		Position: sess.cursor,
	}
	switch {
	case sess.cursor < len(sess.buffer):
		view.Status = domain.FeedPresenting
		item := sess.buffer[sess.cursor]
		view.Item = &item
	// Failure wins over an in-flight retry: the feed stays failed until a
	// page actually lands.
	case sess.firstPageFailed:
		view.Status = domain.FeedFailed
	case sess.fetchInFlight:
		view.Status = domain.FeedLoading
	case !sess.hasMore:
		view.Status = domain.FeedExhausted
	default:
		view.Status = domain.FeedLoading
	}
	return view
}

func (e *Engine) handleSwipe(c cmdSwipe) domain.SwipeResult {
	sess, ok := e.sessions[c.userID]
	if !ok {
		return domain.SwipeResult{}
	}

	if sess.committing {
		// Double-swipe inside the commit window: not an error, just dropped.
		metrics.VerdictsDropped.Inc()
		slog.Debug("Verdict dropped during commit", "user_id", c.userID, "verdict", c.verdict)
		return domain.SwipeResult{}
	}

	decision, ok := c.verdict.Decision()
	if !ok {
		return domain.SwipeResult{}
	}

	e.skipDecided(c.userID, sess)
	if sess.cursor >= len(sess.buffer) {
		// Nothing presentable to decide on.
		return domain.SwipeResult{}
	}

	item := sess.buffer[sess.cursor]
	commit := cmdCommit{
		userID:     c.userID,
		generation: sess.generation,
		item:       item,
		itemIndex:  sess.cursor,
		decision:   decision,
	}

	sess.committing = true
	if e.opts.CommitDelay > 0 {
		e.clock.AfterFunc(e.opts.CommitDelay, func() {
			e.cmdCh <- commit
		})
	} else {
		e.handleCommit(commit)
	}

	return domain.SwipeResult{Accepted: true, Decision: decision, ItemID: item.ID}
}

// handleCommit finishes an accepted verdict: record the decision, advance the
// cursor, release the Committing lock. The decision is recorded even when the
// session was rebuilt mid-animation (the user did decide); only the cursor of
// the old queue is gone.
func (e *Engine) handleCommit(c cmdCommit) {
	e.decisions.Record(c.userID, c.item, c.decision)
	metrics.SwipesTotal.WithLabelValues(verdictLabel(c.decision)).Inc()

	sess, ok := e.sessions[c.userID]
	if !ok || sess.generation != c.generation {
		return
	}

	if sess.cursor <= c.itemIndex {
		sess.cursor = c.itemIndex + 1
	}
	sess.committing = false

	e.maybeFetch(c.userID, sess)
	e.updateDepthGauge()
}

func (e *Engine) handlePageResult(c cmdPageResult) {
	sess, ok := e.sessions[c.userID]
	if !ok || sess.generation != c.generation {
		// Result for a queue that no longer exists.
		metrics.FetchesTotal.WithLabelValues("stale").Inc()
		return
	}

	sess.fetchInFlight = false

	if c.err != nil {
		metrics.FetchesTotal.WithLabelValues("error").Inc()
		if !sess.fetchedOnce {
			sess.firstPageFailed = true
		}
		// hasMore is left unchanged so a later trigger retries.
		slog.Warn("Page fetch failed", "user_id", c.userID, "error", c.err)
		return
	}

	metrics.FetchesTotal.WithLabelValues("ok").Inc()
	sess.fetchedOnce = true
	sess.firstPageFailed = false
	sess.nextToken = c.page.NextToken
	sess.hasMore = c.page.HasMore

	for _, item := range c.page.Items {
		if _, dup := sess.seen[item.ID]; dup {
			continue
		}
		// Dropped items are remembered too: a decision removed later must
		// not resurrect the item into this queue.
		sess.seen[item.ID] = struct{}{}
		if e.decisions.IsExcluded(c.userID, item.ID) {
			continue
		}
		sess.buffer = append(sess.buffer, item)
	}

	e.updateDepthGauge()
}

// skipDecided applies exclusion filtering at read time: an item decided after
// it was buffered (from the liked/disliked tabs) is passed over, never
// presented. The cursor only moves forward.
func (e *Engine) skipDecided(userID uuid.UUID, sess *session) {
	if sess.committing {
		// The card at the cursor is mid-commit; its decision lands when the
		// lock releases.
		return
	}
	for sess.cursor < len(sess.buffer) && e.decisions.IsExcluded(userID, sess.buffer[sess.cursor].ID) {
		sess.cursor++
	}
}

// maybeFetch fires the look-ahead page request once the cursor is within
// Lookahead items of the buffer end. Single-flight per session: the guard
// stays up until the result re-enters the actor.
func (e *Engine) maybeFetch(userID uuid.UUID, sess *session) {
	if sess.fetchInFlight || !sess.hasMore {
		return
	}
	if sess.fetchedOnce && sess.remaining() > e.opts.Lookahead {
		return
	}

	sess.fetchInFlight = true
	query := domain.SearchQuery{
		Criteria:  sess.criteria,
		PageToken: sess.nextToken,
		PageSize:  e.opts.PageSize,
	}
	generation := sess.generation

	go func() {
		start := time.Now()
		page, err := e.provider.SearchPage(context.Background(), query)
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		e.cmdCh <- cmdPageResult{userID: userID, generation: generation, page: page, err: err}
	}()
}

func (e *Engine) updateDepthGauge() {
	depth := 0
	for _, sess := range e.sessions {
		depth += sess.remaining()
	}
	metrics.BufferDepth.Set(float64(depth))
}

func verdictLabel(d domain.Decision) string {
	if d == domain.DecisionLiked {
		return string(domain.VerdictRight)
	}
	return string(domain.VerdictLeft)
}

// --- Public API ---

// Ensure creates or rebuilds the user's feed session for the given criteria.
// Commands are processed in order, so a following Next observes the result.
func (e *Engine) Ensure(userID uuid.UUID, criteria domain.FilterCriteria) {
	e.cmdCh <- cmdEnsure{userID: userID, criteria: criteria}
}

// Next returns what the user should see: the item at the cursor, or a
// loading/exhausted/failed state.
func (e *Engine) Next(userID uuid.UUID) domain.FeedView {
	replyCh := make(chan domain.FeedView, 1)
	e.cmdCh <- cmdNext{userID: userID, replyCh: replyCh}
	return <-replyCh
}

// Swipe submits a verdict for the item at the cursor. Verdicts arriving
// while a commit is in flight are dropped, not queued.
func (e *Engine) Swipe(userID uuid.UUID, verdict domain.Verdict) domain.SwipeResult {
	replyCh := make(chan domain.SwipeResult, 1)
	e.cmdCh <- cmdSwipe{userID: userID, verdict: verdict, replyCh: replyCh}
	return <-replyCh
}

// EndSession discards the user's feed session.
func (e *Engine) EndSession(userID uuid.UUID) {
	e.cmdCh <- cmdEndSession{userID: userID}
}

// Stop shuts down the actor goroutine.
func (e *Engine) Stop() {
	doneCh := make(chan struct{})
	e.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
