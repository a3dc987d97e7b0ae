package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type mockDecisions struct {
	mu        sync.Mutex
	loadCalls int
	loadErr   error
	records   map[string]domain.DecisionRecord
	removed   []string
}

func newMockDecisions() *mockDecisions {
	return &mockDecisions{records: make(map[string]domain.DecisionRecord)}
}

func (m *mockDecisions) Load(_ context.Context, _ uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	return m.loadErr
}

func (m *mockDecisions) Record(_ uuid.UUID, item domain.Item, decision domain.Decision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[item.ID] = domain.DecisionRecord{Item: item, Decision: decision, DecidedAt: time.Now()}
}

func (m *mockDecisions) Remove(_ uuid.UUID, itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, itemID)
	m.removed = append(m.removed, itemID)
}

func (m *mockDecisions) IsExcluded(_ uuid.UUID, itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[itemID]
	return ok
}

func (m *mockDecisions) Get(_ uuid.UUID, itemID string) (domain.DecisionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[itemID]
	return record, ok
}

func (m *mockDecisions) ListByDecision(_ uuid.UUID, decision domain.Decision) []domain.DecisionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.DecisionRecord
	for _, record := range m.records {
		if record.Decision == decision {
			result = append(result, record)
		}
	}
	return result
}

type mockEngine struct {
	mu          sync.Mutex
	ensured     []domain.FilterCriteria
	swiped      []domain.Verdict
	ended       int
	nextView    domain.FeedView
	swipeResult domain.SwipeResult
}

func (m *mockEngine) Ensure(_ uuid.UUID, criteria domain.FilterCriteria) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured = append(m.ensured, criteria)
}

func (m *mockEngine) Next(_ uuid.UUID) domain.FeedView {
	return m.nextView
}

func (m *mockEngine) Swipe(_ uuid.UUID, verdict domain.Verdict) domain.SwipeResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swiped = append(m.swiped, verdict)
	return m.swipeResult
}

func (m *mockEngine) EndSession(_ uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended++
}

type mockCatalog struct {
	popularFn func(ctx context.Context) ([]domain.Item, error)
}

func (m *mockCatalog) SearchPage(_ context.Context, _ domain.SearchQuery) (*domain.CatalogPage, error) {
	return &domain.CatalogPage{}, nil
}

func (m *mockCatalog) Popular(ctx context.Context) ([]domain.Item, error) {
	return m.popularFn(ctx)
}

type mockCart struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (m *mockCart) AddToCart(_ context.Context, itemID, variantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [2]string{itemID, variantID})
	return m.err
}

type serviceFixture struct {
	service   *Service
	kv        *fakeKV
	decisions *mockDecisions
	engine    *mockEngine
	catalog   *mockCatalog
	cart      *mockCart
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		kv:        newFakeKV(),
		decisions: newMockDecisions(),
		engine:    &mockEngine{},
		catalog:   &mockCatalog{},
		cart:      &mockCart{},
	}
	f.service = NewService(f.kv, f.decisions, f.engine, f.catalog, f.cart, 10000)
	return f
}

func (f *serviceFixture) saveProfile(t *testing.T, userID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.service.SaveProfile(context.Background(), userID, domain.GenderFemale, []string{"shoes", "bags"}))
}

func TestGetProfileNotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.GetProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestSaveProfileRoundTrip(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()

	f.saveProfile(t, userID)

	profile, err := f.service.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenderFemale, profile.Gender)
	assert.Equal(t, []string{"shoes", "bags"}, profile.Categories)
	assert.True(t, profile.Complete)

	// Saving rebuilds the feed for the new criteria.
	require.Len(t, f.engine.ensured, 1)
	assert.Equal(t, domain.FilterCriteria{Gender: domain.GenderFemale, Categories: []string{"shoes", "bags"}}, f.engine.ensured[0])
}

func TestSaveProfileValidation(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()

	err := f.service.SaveProfile(context.Background(), userID, domain.GenderUnset, []string{"shoes"})
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)

	err = f.service.SaveProfile(context.Background(), userID, domain.GenderMale, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestDeleteProfile(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.saveProfile(t, userID)

	require.NoError(t, f.service.DeleteProfile(context.Background(), userID))

	_, err := f.service.GetProfile(context.Background(), userID)
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Equal(t, 1, f.engine.ended)
}

func TestNextFeedItemRequiresProfile(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.NextFeedItem(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestNextFeedItemLoadsDecisionsOnce(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.saveProfile(t, userID)
	f.engine.nextView = domain.FeedView{Status: domain.FeedLoading}

	for i := 0; i < 3; i++ {
		view, err := f.service.NextFeedItem(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, domain.FeedLoading, view.Status)
	}

	assert.Equal(t, 1, f.decisions.loadCalls)
}

func TestSubmitVerdict(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.saveProfile(t, userID)
	f.engine.swipeResult = domain.SwipeResult{Accepted: true, Decision: domain.DecisionLiked, ItemID: "a"}

	result, err := f.service.SubmitVerdict(context.Background(), userID, domain.VerdictRight)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, []domain.Verdict{domain.VerdictRight}, f.engine.swiped)
}

func TestSubmitVerdictRejectsUnknown(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.SubmitVerdict(context.Background(), uuid.New(), domain.Verdict("up"))
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestSubmitGesture(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.saveProfile(t, userID)
	f.engine.swipeResult = domain.SwipeResult{Accepted: true, Decision: domain.DecisionDisliked, ItemID: "a"}

	// Below threshold: card snaps back, no engine call.
	result, err := f.service.SubmitGesture(context.Background(), userID, 20, 100)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Empty(t, f.engine.swiped)

	// Strong fling left.
	result, err = f.service.SubmitGesture(context.Background(), userID, -120, -200)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, []domain.Verdict{domain.VerdictLeft}, f.engine.swiped)
}

func TestRemoveLiked(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()

	err := f.service.RemoveLiked(context.Background(), userID, "missing")
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	f.decisions.Record(userID, domain.Item{ID: "a"}, domain.DecisionDisliked)
	err = f.service.RemoveLiked(context.Background(), userID, "a")
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	f.decisions.Record(userID, domain.Item{ID: "b"}, domain.DecisionLiked)
	require.NoError(t, f.service.RemoveLiked(context.Background(), userID, "b"))
	assert.Equal(t, []string{"b"}, f.decisions.removed)
}

func TestRestoreDisliked(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.decisions.Record(userID, domain.Item{ID: "a"}, domain.DecisionDisliked)

	require.NoError(t, f.service.RestoreDisliked(context.Background(), userID, "a"))
	assert.Equal(t, []string{"a"}, f.decisions.removed)

	err := f.service.RestoreDisliked(context.Background(), userID, "a")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMoveToLiked(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.decisions.Record(userID, domain.Item{ID: "a"}, domain.DecisionDisliked)

	require.NoError(t, f.service.MoveToLiked(context.Background(), userID, "a"))

	record, ok := f.decisions.Get(userID, "a")
	require.True(t, ok)
	assert.Equal(t, domain.DecisionLiked, record.Decision)

	err := f.service.MoveToLiked(context.Background(), userID, "a")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestAddToCart(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.decisions.Record(userID, domain.Item{ID: "a", VariantID: "v1"}, domain.DecisionLiked)

	require.NoError(t, f.service.AddToCart(context.Background(), userID, "a"))
	assert.Equal(t, [][2]string{{"a", "v1"}}, f.cart.calls)

	err := f.service.AddToCart(context.Background(), userID, "missing")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestAddToCartSurfacesProviderError(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.decisions.Record(userID, domain.Item{ID: "a", VariantID: "v1"}, domain.DecisionLiked)
	f.cart.err = apperrors.ExternalError("cart unavailable", errors.New("503"))

	err := f.service.AddToCart(context.Background(), userID, "a")
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeExternal, apperrors.AsStructuredError(err).Type)
}

func TestPopularPassThrough(t *testing.T) {
	f := newServiceFixture()
	f.catalog.popularFn = func(_ context.Context) ([]domain.Item, error) {
		return []domain.Item{{ID: "trend-1"}}, nil
	}

	popular, err := f.service.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "trend-1", popular[0].ID)
}

func TestListByDecision(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	f.decisions.Record(userID, domain.Item{ID: "a"}, domain.DecisionLiked)
	f.decisions.Record(userID, domain.Item{ID: "b"}, domain.DecisionDisliked)

	liked, err := f.service.ListLiked(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "a", liked[0].Item.ID)

	disliked, err := f.service.ListDisliked(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, disliked, 1)
	assert.Equal(t, "b", disliked[0].Item.ID)
}
