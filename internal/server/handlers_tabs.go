package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type listFunc func(ctx context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error)

type itemActionFunc func(ctx context.Context, userID uuid.UUID, itemID string) error

func (s *Server) handleListLiked(c echo.Context) error {
	return s.handleList(c, s.app.ListLiked)
}

func (s *Server) handleListDisliked(c echo.Context) error {
	return s.handleList(c, s.app.ListDisliked)
}

func (s *Server) handleRemoveLiked(c echo.Context) error {
	return s.handleItemAction(c, s.app.RemoveLiked)
}

func (s *Server) handleRestoreDisliked(c echo.Context) error {
	return s.handleItemAction(c, s.app.RestoreDisliked)
}

func (s *Server) handleMoveToLiked(c echo.Context) error {
	return s.handleItemAction(c, s.app.MoveToLiked)
}

func (s *Server) handleAddToCart(c echo.Context) error {
	return s.handleItemAction(c, s.app.AddToCart)
}

func (s *Server) handlePopular(c echo.Context) error {
	items, err := s.app.Popular(c.Request().Context())
	if err != nil {
		return err
	}

	if err := c.JSON(200, map[string]any{"items": items}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleList(c echo.Context, list listFunc) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	records, err := list(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.DecisionRecord{}
	}

	if err := c.JSON(200, map[string]any{"items": records}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleItemAction(c echo.Context, action itemActionFunc) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	itemID := c.Param("id")
	if itemID == "" {
		return apperrors.ValidationError("item id is required")
	}

	if err := action(c.Request().Context(), userID, itemID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return apperrors.NotFoundError("item not found").WithField("item_id", itemID)
		}
		return err
	}

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
