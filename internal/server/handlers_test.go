package server

import (
	"context"
	"testing"
	"time"

	"github.com/Diferti/swibee/internal/config"
	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// mockAppService implements domain.AppService with overridable function
// fields. Nil fields return zero values.
type mockAppService struct {
	getProfileFn      func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	saveProfileFn     func(ctx context.Context, userID uuid.UUID, gender domain.Gender, categories []string) error
	deleteProfileFn   func(ctx context.Context, userID uuid.UUID) error
	nextFeedItemFn    func(ctx context.Context, userID uuid.UUID) (domain.FeedView, error)
	submitVerdictFn   func(ctx context.Context, userID uuid.UUID, verdict domain.Verdict) (domain.SwipeResult, error)
	submitGestureFn   func(ctx context.Context, userID uuid.UUID, offsetX, velocityX float64) (domain.SwipeResult, error)
	listLikedFn       func(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error)
	listDislikedFn    func(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error)
	removeLikedFn     func(ctx context.Context, userID uuid.UUID, itemID string) error
	restoreDislikedFn func(ctx context.Context, userID uuid.UUID, itemID string) error
	moveToLikedFn     func(ctx context.Context, userID uuid.UUID, itemID string) error
	addToCartFn       func(ctx context.Context, userID uuid.UUID, itemID string) error
	popularFn         func(ctx context.Context) ([]domain.Item, error)
}

func (m *mockAppService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.getProfileFn == nil {
		return nil, domain.ErrProfileNotFound
	}
	return m.getProfileFn(ctx, userID)
}

func (m *mockAppService) SaveProfile(ctx context.Context, userID uuid.UUID, gender domain.Gender, categories []string) error {
	if m.saveProfileFn == nil {
		return nil
	}
	return m.saveProfileFn(ctx, userID, gender, categories)
}

func (m *mockAppService) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	if m.deleteProfileFn == nil {
		return nil
	}
	return m.deleteProfileFn(ctx, userID)
}

func (m *mockAppService) NextFeedItem(ctx context.Context, userID uuid.UUID) (domain.FeedView, error) {
	if m.nextFeedItemFn == nil {
		return domain.FeedView{}, nil
	}
	return m.nextFeedItemFn(ctx, userID)
}

func (m *mockAppService) SubmitVerdict(ctx context.Context, userID uuid.UUID, verdict domain.Verdict) (domain.SwipeResult, error) {
	if m.submitVerdictFn == nil {
		return domain.SwipeResult{}, nil
	}
	return m.submitVerdictFn(ctx, userID, verdict)
}

func (m *mockAppService) SubmitGesture(ctx context.Context, userID uuid.UUID, offsetX, velocityX float64) (domain.SwipeResult, error) {
	if m.submitGestureFn == nil {
		return domain.SwipeResult{}, nil
	}
	return m.submitGestureFn(ctx, userID, offsetX, velocityX)
}

func (m *mockAppService) ListLiked(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
	if m.listLikedFn == nil {
		return nil, nil
	}
	return m.listLikedFn(ctx, userID)
}

func (m *mockAppService) ListDisliked(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
	if m.listDislikedFn == nil {
		return nil, nil
	}
	return m.listDislikedFn(ctx, userID)
}

func (m *mockAppService) RemoveLiked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if m.removeLikedFn == nil {
		return nil
	}
	return m.removeLikedFn(ctx, userID, itemID)
}

func (m *mockAppService) RestoreDisliked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if m.restoreDislikedFn == nil {
		return nil
	}
	return m.restoreDislikedFn(ctx, userID, itemID)
}

func (m *mockAppService) MoveToLiked(ctx context.Context, userID uuid.UUID, itemID string) error {
	if m.moveToLikedFn == nil {
		return nil
	}
	return m.moveToLikedFn(ctx, userID, itemID)
}

func (m *mockAppService) AddToCart(ctx context.Context, userID uuid.UUID, itemID string) error {
	if m.addToCartFn == nil {
		return nil
	}
	return m.addToCartFn(ctx, userID, itemID)
}

func (m *mockAppService) Popular(ctx context.Context) ([]domain.Item, error) {
	if m.popularFn == nil {
		return nil, nil
	}
	return m.popularFn(ctx)
}

func newTestServer(t *testing.T, app domain.AppService) *Server {
	t.Helper()
	cfg := &config.Config{
		AppEnv:        "test",
		Port:          "0",
		SessionSecret: "test-secret",
		SessionMaxAge: 24 * time.Hour,
	}
	return NewServer(cfg, app, nil)
}

// callHandler runs a handler through the structured error middleware so
// error-to-status conversion matches production behavior.
func callHandler(h echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(h)(c)
}
