package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Diferti/swibee/internal/domain"
	"github.com/Diferti/swibee/internal/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const flushTimeout = 5 * time.Second

// Store implements domain.DecisionStore. All reads hit the in-memory mirror;
// the key-value store is only touched on Load and by the write-through
// flushers.
type Store struct {
	kv    domain.KeyValueStore
	clock clockwork.Clock

	mu    sync.Mutex
	users map[uuid.UUID]*userMirror
	wg    sync.WaitGroup
}

var _ domain.DecisionStore = (*Store)(nil)

// userMirror holds one user's decisions: a record index plus per-decision
// insertion order, most-recently-decided last.
type userMirror struct {
	records map[string]domain.DecisionRecord
	order   map[domain.Decision][]string
	flush   map[domain.Decision]*flushState
	loaded  bool
}

// flushState coalesces write-throughs for one persisted list. While a flusher
// goroutine is running, further mutations only re-mark dirty; the flusher
// re-snapshots until it observes a clean state, so the last write always
// carries the latest mirror contents.
type flushState struct {
	dirty   bool
	running bool
}

func NewStore(kv domain.KeyValueStore, clock clockwork.Clock) *Store {
	return &Store{
		kv:    kv,
		clock: clock,
		users: make(map[uuid.UUID]*userMirror),
	}
}

func newUserMirror() *userMirror {
	return &userMirror{
		records: make(map[string]domain.DecisionRecord),
		order: map[domain.Decision][]string{
			domain.DecisionLiked:    nil,
			domain.DecisionDisliked: nil,
		},
		flush: map[domain.Decision]*flushState{
			domain.DecisionLiked:    {},
			domain.DecisionDisliked: {},
		},
	}
}

// Load hydrates the user's mirror from the persisted liked/disliked lists.
// Safe to call repeatedly; only the first call per user reads the KV store.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	if m, ok := s.users[userID]; ok && m.loaded {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	liked, err := s.readList(ctx, listKey(userID, domain.DecisionLiked))
	if err != nil {
		return fmt.Errorf("failed to load liked items: %w", err)
	}
	disliked, err := s.readList(ctx, listKey(userID, domain.DecisionDisliked))
	if err != nil {
		return fmt.Errorf("failed to load disliked items: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.users[userID]; ok && m.loaded {
		// Lost the load race; the winner's mirror may already hold fresh
		// decisions, keep it.
		return nil
	}

	m := newUserMirror()
	for _, rec := range liked {
		m.records[rec.Item.ID] = rec
		m.order[domain.DecisionLiked] = append(m.order[domain.DecisionLiked], rec.Item.ID)
	}
	for _, rec := range disliked {
		if _, exists := m.records[rec.Item.ID]; exists {
			// An item can only hold one decision; liked wins over a stale
			// disliked entry left behind by a partial write.
			continue
		}
		m.records[rec.Item.ID] = rec
		m.order[domain.DecisionDisliked] = append(m.order[domain.DecisionDisliked], rec.Item.ID)
	}
	m.loaded = true
	s.users[userID] = m
	return nil
}

func (s *Store) readList(ctx context.Context, key string) ([]domain.DecisionRecord, error) {
	payload, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || payload == "" {
		return nil, nil
	}

	var records []domain.DecisionRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return records, nil
}

// Record upserts a decision. Re-recording the same decision is a no-op; a
// differing decision moves the item to the end of the other list.
func (s *Store) Record(userID uuid.UUID, item domain.Item, d domain.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mirror(userID)

	if existing, ok := m.records[item.ID]; ok {
		if existing.Decision == d {
			return
		}
		m.removeFromOrder(existing.Decision, item.ID)
		s.markDirty(userID, m, existing.Decision)
	}

	m.records[item.ID] = domain.DecisionRecord{
		Item:      item,
		Decision:  d,
		DecidedAt: s.clock.Now(),
	}
	m.order[d] = append(m.order[d], item.ID)
	metrics.DecisionsRecorded.WithLabelValues(string(d)).Inc()
	s.markDirty(userID, m, d)
}

// Remove clears any decision for the item.
func (s *Store) Remove(userID uuid.UUID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mirror(userID)
	existing, ok := m.records[itemID]
	if !ok {
		return
	}

	delete(m.records, itemID)
	m.removeFromOrder(existing.Decision, itemID)
	s.markDirty(userID, m, existing.Decision)
}

// IsExcluded reports whether any decision exists for the item.
func (s *Store) IsExcluded(userID uuid.UUID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.users[userID]
	if !ok {
		return false
	}
	_, decided := m.records[itemID]
	return decided
}

// Get returns the record for an item, if one exists.
func (s *Store) Get(userID uuid.UUID, itemID string) (domain.DecisionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.users[userID]
	if !ok {
		return domain.DecisionRecord{}, false
	}
	rec, decided := m.records[itemID]
	return rec, decided
}

// ListByDecision returns records with the given decision in insertion order.
func (s *Store) ListByDecision(userID uuid.UUID, d domain.Decision) []domain.DecisionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.users[userID]
	if !ok {
		return nil
	}

	records := make([]domain.DecisionRecord, 0, len(m.order[d]))
	for _, id := range m.order[d] {
		records = append(records, m.records[id])
	}
	return records
}

// Close waits for in-flight write-throughs to drain.
func (s *Store) Close() {
	s.wg.Wait()
}

func (s *Store) mirror(userID uuid.UUID) *userMirror {
	m, ok := s.users[userID]
	if !ok {
		m = newUserMirror()
		s.users[userID] = m
	}
	return m
}

func (m *userMirror) removeFromOrder(d domain.Decision, itemID string) {
	ids := m.order[d]
	for i, id := range ids {
		if id == itemID {
			m.order[d] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// markDirty schedules a write-through for one persisted list. Caller must
// hold s.mu.
func (s *Store) markDirty(userID uuid.UUID, m *userMirror, d domain.Decision) {
	st := m.flush[d]
	st.dirty = true
	if st.running {
		return
	}
	st.running = true
	s.wg.Add(1)
	go s.flushLoop(userID, m, d)
}

// flushLoop persists the list until it observes a clean state. Each pass
// snapshots under the lock after clearing dirty, so a mutation racing the
// write re-marks and gets persisted by the next pass (last-writer-wins).
func (s *Store) flushLoop(userID uuid.UUID, m *userMirror, d domain.Decision) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		st := m.flush[d]
		if !st.dirty {
			st.running = false
			s.mu.Unlock()
			return
		}
		st.dirty = false

		records := make([]domain.DecisionRecord, 0, len(m.order[d]))
		for _, id := range m.order[d] {
			records = append(records, m.records[id])
		}
		s.mu.Unlock()

		s.persist(userID, d, records)
	}
}

func (s *Store) persist(userID uuid.UUID, d domain.Decision, records []domain.DecisionRecord) {
	key := listKey(userID, d)

	payload, err := json.Marshal(records)
	if err != nil {
		// Records are plain data; this should never happen.
		metrics.PersistenceFailures.WithLabelValues(string(d)).Inc()
		slog.Error("Failed to encode decision list", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	start := time.Now()
	err = s.kv.Set(ctx, key, string(payload))
	metrics.PersistenceDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		// Optimistic persistence: the in-memory decision stands, the user is
		// never blocked or rolled back because of a storage hiccup.
		metrics.PersistenceFailures.WithLabelValues(string(d)).Inc()
		slog.Error("Decision write-through failed", "key", key, "records", len(records), "error", err)
	}
}

func listKey(userID uuid.UUID, d domain.Decision) string {
	if d == domain.DecisionLiked {
		return "user:" + userID.String() + ":likedItems"
	}
	return "user:" + userID.String() + ":dislikedItems"
}
