package server

import (
	"errors"
	"fmt"

	"github.com/Diferti/swibee/internal/domain"
	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/labstack/echo/v4"
)

type profileRequest struct {
	Gender     string   `json:"gender"`
	Categories []string `json:"categories"`
}

func (s *Server) handleGetProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := s.app.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return apperrors.NotFoundError("profile not set up")
		}
		return err
	}

	if err := c.JSON(200, profile); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSaveProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	gender := domain.ParseGender(req.Gender)
	if err := s.app.SaveProfile(c.Request().Context(), userID, gender, req.Categories); err != nil {
		return err
	}

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := s.app.DeleteProfile(c.Request().Context(), userID); err != nil {
		return err
	}

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
