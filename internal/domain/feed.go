package domain

// Verdict is the discrete outcome of interpreting a gesture or direct action.
type Verdict string

const (
	VerdictNone  Verdict = ""
	VerdictLeft  Verdict = "left"
	VerdictRight Verdict = "right"
)

// Decision maps a verdict onto its decision: left means disliked, right
// means liked. None has no decision.
func (v Verdict) Decision() (Decision, bool) {
	switch v {
	case VerdictLeft:
		return DecisionDisliked, true
	case VerdictRight:
		return DecisionLiked, true
	default:
		return "", false
	}
}

// FeedStatus describes what the feed has to offer right now.
type FeedStatus string

const (
	// FeedPresenting means an undecided item is available at the cursor.
	FeedPresenting FeedStatus = "presenting"
	// FeedLoading means the buffer is drained but a fetch is still pending;
	// distinct from exhausted so the caller never renders "no more items"
	// during a transient fetch.
	FeedLoading FeedStatus = "loading"
	// FeedExhausted means the provider reported end-of-stream and every
	// buffered item is decided.
	FeedExhausted FeedStatus = "exhausted"
	// FeedFailed means the first fetch for the current criteria failed and
	// there is nothing buffered to show.
	FeedFailed FeedStatus = "failed"
)

// FeedView is the engine's answer to "what should the user see next".
type FeedView struct {
	Status FeedStatus `json:"status"`
	Item   *Item      `json:"item,omitempty"`
	// Buffered and Position describe queue depth for diagnostics.
	Buffered int `json:"buffered"`
	Position int `json:"position"`
}

// SwipeResult reports the outcome of submitting a verdict.
type SwipeResult struct {
	// Accepted is false when the verdict arrived during an in-flight commit
	// and was dropped.
	Accepted bool     `json:"accepted"`
	Decision Decision `json:"decision,omitempty"`
	ItemID   string   `json:"item_id,omitempty"`
}
