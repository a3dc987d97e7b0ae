package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/Diferti/swibee/internal/feed"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// FeedEngine is the subset of the feed engine the service drives.
type FeedEngine interface {
	Ensure(userID uuid.UUID, criteria domain.FilterCriteria)
	Next(userID uuid.UUID) domain.FeedView
	Swipe(userID uuid.UUID, verdict domain.Verdict) domain.SwipeResult
	EndSession(userID uuid.UUID)
}

// Service is the application layer - the only component that references
// multiple domain components. It orchestrates all use cases.
type Service struct {
	kv        domain.KeyValueStore
	decisions domain.DecisionStore
	engine    FeedEngine
	catalog   domain.CatalogProvider
	cart      domain.CartProvider

	// loadGroup collapses concurrent decision-store hydrations for the
	// same user into one KV round trip.
	loadGroup singleflight.Group
	loadedMu  sync.Mutex
	loaded    map[uuid.UUID]bool

	swipeThreshold float64
}

var _ domain.AppService = (*Service)(nil)

// NewService creates the application layer service.
func NewService(kv domain.KeyValueStore, decisions domain.DecisionStore, engine FeedEngine, catalog domain.CatalogProvider, cart domain.CartProvider, swipeThreshold float64) *Service {
	return &Service{
		kv:             kv,
		decisions:      decisions,
		engine:         engine,
		catalog:        catalog,
		cart:           cart,
		loaded:         make(map[uuid.UUID]bool),
		swipeThreshold: swipeThreshold,
	}
}

func userKey(userID uuid.UUID, field string) string {
	return fmt.Sprintf("user:%s:%s", userID, field)
}

// GetProfile returns the user's profile, or domain.ErrProfileNotFound when
// setup never completed.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	flag, ok, err := s.kv.Get(ctx, userKey(userID, "hasProfile"))
	if err != nil {
		return nil, apperrors.InternalError("profile lookup failed", err)
	}
	if !ok || flag != "true" {
		return nil, domain.ErrProfileNotFound
	}

	gender, _, err := s.kv.Get(ctx, userKey(userID, "gender"))
	if err != nil {
		return nil, apperrors.InternalError("profile lookup failed", err)
	}

	var categories []string
	raw, ok, err := s.kv.Get(ctx, userKey(userID, "categories"))
	if err != nil {
		return nil, apperrors.InternalError("profile lookup failed", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &categories); err != nil {
			return nil, apperrors.InternalError("profile categories corrupted", err).WithField("user_id", userID.String())
		}
	}

	return &domain.Profile{
		Gender:     domain.Gender(gender),
		Categories: categories,
		Complete:   true,
	}, nil
}

// SaveProfile persists the profile synchronously and rebuilds the feed queue
// when the criteria changed. An unchanged save leaves the queue intact.
func (s *Service) SaveProfile(ctx context.Context, userID uuid.UUID, gender domain.Gender, categories []string) error {
	if gender == domain.GenderUnset {
		return apperrors.ValidationError("gender is required")
	}
	if len(categories) == 0 {
		return apperrors.ValidationError("at least one category is required")
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		return apperrors.InternalError("failed to encode categories", err)
	}

	if err := s.kv.Set(ctx, userKey(userID, "gender"), string(gender)); err != nil {
		return apperrors.InternalError("failed to save profile", err)
	}
	if err := s.kv.Set(ctx, userKey(userID, "categories"), string(raw)); err != nil {
		return apperrors.InternalError("failed to save profile", err)
	}
	if err := s.kv.Set(ctx, userKey(userID, "hasProfile"), "true"); err != nil {
		return apperrors.InternalError("failed to save profile", err)
	}

	if err := s.ensureLoaded(ctx, userID); err != nil {
		return err
	}
	s.engine.Ensure(userID, domain.FilterCriteria{Gender: gender, Categories: categories})
	return nil
}

// DeleteProfile removes the profile keys and discards the feed session.
// Decision lists survive; they belong to the user, not the profile.
func (s *Service) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	for _, field := range []string{"hasProfile", "gender", "categories"} {
		if err := s.kv.Remove(ctx, userKey(userID, field)); err != nil {
			return apperrors.InternalError("failed to delete profile", err)
		}
	}
	s.engine.EndSession(userID)
	return nil
}

// NextFeedItem returns the current feed view for the user.
func (s *Service) NextFeedItem(ctx context.Context, userID uuid.UUID) (domain.FeedView, error) {
	if err := s.prepareFeed(ctx, userID); err != nil {
		return domain.FeedView{}, err
	}
	return s.engine.Next(userID), nil
}

// SubmitVerdict applies a discrete left/right verdict to the current item.
func (s *Service) SubmitVerdict(ctx context.Context, userID uuid.UUID, verdict domain.Verdict) (domain.SwipeResult, error) {
	if _, ok := verdict.Decision(); !ok {
		return domain.SwipeResult{}, apperrors.ValidationError("verdict must be left or right")
	}
	if err := s.prepareFeed(ctx, userID); err != nil {
		return domain.SwipeResult{}, err
	}
	return s.engine.Swipe(userID, verdict), nil
}

// SubmitGesture classifies raw gesture coordinates and applies the resulting
// verdict. A gesture below the threshold is not an error; the card snaps back
// and nothing is recorded.
func (s *Service) SubmitGesture(ctx context.Context, userID uuid.UUID, offsetX, velocityX float64) (domain.SwipeResult, error) {
	verdict := feed.ClassifyGesture(offsetX, velocityX, s.swipeThreshold)
	if verdict == domain.VerdictNone {
		return domain.SwipeResult{}, nil
	}
	if err := s.prepareFeed(ctx, userID); err != nil {
		return domain.SwipeResult{}, err
	}
	return s.engine.Swipe(userID, verdict), nil
}

// ListLiked returns the liked list, most-recently-decided last.
func (s *Service) ListLiked(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return nil, err
	}
	return s.decisions.ListByDecision(userID, domain.DecisionLiked), nil
}

// ListDisliked returns the disliked list, most-recently-decided last.
func (s *Service) ListDisliked(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return nil, err
	}
	return s.decisions.ListByDecision(userID, domain.DecisionDisliked), nil
}

// RemoveLiked drops an item from the liked list.
func (s *Service) RemoveLiked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if err := s.requireDecision(ctx, userID, itemID, domain.DecisionLiked); err != nil {
		return err
	}
	s.decisions.Remove(userID, itemID)
	return nil
}

// RestoreDisliked drops an item from the disliked list. The item stays out of
// the current queue; it becomes eligible again after the next criteria reset.
func (s *Service) RestoreDisliked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if err := s.requireDecision(ctx, userID, itemID, domain.DecisionDisliked); err != nil {
		return err
	}
	s.decisions.Remove(userID, itemID)
	return nil
}

// MoveToLiked reclassifies a disliked item as liked.
func (s *Service) MoveToLiked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return err
	}
	record, ok := s.decisions.Get(userID, itemID)
	if !ok || record.Decision != domain.DecisionDisliked {
		return domain.ErrItemNotFound
	}
	s.decisions.Record(userID, record.Item, domain.DecisionLiked)
	return nil
}

// AddToCart forwards a liked item to the external cart provider.
func (s *Service) AddToCart(ctx context.Context, userID uuid.UUID, itemID string) error {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return err
	}
	record, ok := s.decisions.Get(userID, itemID)
	if !ok || record.Decision != domain.DecisionLiked {
		return domain.ErrItemNotFound
	}
	return s.cart.AddToCart(ctx, record.Item.ID, record.Item.VariantID)
}

// Popular returns the provider's trending list. No engine involvement, no
// exclusion filtering.
func (s *Service) Popular(ctx context.Context) ([]domain.Item, error) {
	return s.catalog.Popular(ctx)
}

// prepareFeed loads decisions and makes sure a session exists for the user's
// current profile criteria. Feed operations require a completed profile.
func (s *Service) prepareFeed(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return err
	}
	s.engine.Ensure(userID, profile.Criteria())
	return nil
}

func (s *Service) requireDecision(ctx context.Context, userID uuid.UUID, itemID string, decision domain.Decision) error {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return err
	}
	record, ok := s.decisions.Get(userID, itemID)
	if !ok || record.Decision != decision {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *Service) ensureLoaded(ctx context.Context, userID uuid.UUID) error {
	s.loadedMu.Lock()
	done := s.loaded[userID]
	s.loadedMu.Unlock()
	if done {
		return nil
	}

	_, err, _ := s.loadGroup.Do(userID.String(), func() (any, error) {
		if err := s.decisions.Load(ctx, userID); err != nil {
			return nil, err
		}
		s.loadedMu.Lock()
		s.loaded[userID] = true
		s.loadedMu.Unlock()
		return nil, nil
	})
	return err
}
