package server

import (
	"errors"
	"fmt"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/labstack/echo/v4"
)

// swipeRequest carries either a discrete verdict or raw gesture coordinates.
type swipeRequest struct {
	Verdict   string   `json:"verdict"`
	OffsetX   *float64 `json:"offset_x"`
	VelocityX *float64 `json:"velocity_x"`
}

func (s *Server) handleFeedNext(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	view, err := s.app.NextFeedItem(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return apperrors.NotFoundError("profile not set up")
		}
		return err
	}

	if err := c.JSON(200, view); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleFeedSwipe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req swipeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	var result domain.SwipeResult

	switch {
	case req.Verdict != "":
		result, err = s.app.SubmitVerdict(ctx, userID, domain.Verdict(req.Verdict))
	case req.OffsetX != nil && req.VelocityX != nil:
		result, err = s.app.SubmitGesture(ctx, userID, *req.OffsetX, *req.VelocityX)
	default:
		return apperrors.ValidationError("either verdict or gesture coordinates are required")
	}

	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return apperrors.NotFoundError("profile not set up")
		}
		return err
	}

	if err := c.JSON(200, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
