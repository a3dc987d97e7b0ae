package domain

import (
	"context"

	"github.com/google/uuid"
)

// DecisionStore is the source of truth for exclusion. Reads are served from
// an in-memory mirror; mutations apply in memory immediately and schedule an
// asynchronous write-through to the key-value store. A write-through failure
// is logged and never rolls back the in-memory state, so mutating calls do
// not return persistence errors.
type DecisionStore interface {
	// Load hydrates the user's mirror from the key-value store. Called once
	// per user session before any other operation.
	Load(ctx context.Context, userID uuid.UUID) error

	// Record upserts a decision. If a differing decision exists for the item
	// it is replaced (supports moving a disliked item to liked).
	Record(userID uuid.UUID, item Item, decision Decision)

	// Remove clears any decision for the item.
	Remove(userID uuid.UUID, itemID string)

	// IsExcluded reports whether any decision exists for the item.
	IsExcluded(userID uuid.UUID, itemID string) bool

	// Get returns the record for an item, if one exists.
	Get(userID uuid.UUID, itemID string) (DecisionRecord, bool)

	// ListByDecision returns records with the given decision in insertion
	// order, most-recently-decided last.
	ListByDecision(userID uuid.UUID, decision Decision) []DecisionRecord
}
