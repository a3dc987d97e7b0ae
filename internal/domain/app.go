package domain

import (
	"context"

	"github.com/google/uuid"
)

// AppService is the application layer contract - handlers route all
// operations through here.
type AppService interface {
	// Profile lifecycle

	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, gender Gender, categories []string) error
	DeleteProfile(ctx context.Context, userID uuid.UUID) error

	// Swipe feed

	NextFeedItem(ctx context.Context, userID uuid.UUID) (FeedView, error)
	SubmitVerdict(ctx context.Context, userID uuid.UUID, verdict Verdict) (SwipeResult, error)
	SubmitGesture(ctx context.Context, userID uuid.UUID, offsetX, velocityX float64) (SwipeResult, error)

	// Liked / disliked tabs

	ListLiked(ctx context.Context, userID uuid.UUID) ([]DecisionRecord, error)
	ListDisliked(ctx context.Context, userID uuid.UUID) ([]DecisionRecord, error)
	RemoveLiked(ctx context.Context, userID uuid.UUID, itemID string) error
	RestoreDisliked(ctx context.Context, userID uuid.UUID, itemID string) error
	MoveToLiked(ctx context.Context, userID uuid.UUID, itemID string) error
	AddToCart(ctx context.Context, userID uuid.UUID, itemID string) error

	// Popular tab

	Popular(ctx context.Context) ([]Item, error)
}
