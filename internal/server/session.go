package server

import (
	"log/slog"

	apperrors "github.com/Diferti/swibee/internal/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Session keys
const (
	sessionName      = "swibee-session"
	sessionKeyUserID = "user_id"
)

// withUser identifies the caller via an anonymous cookie session. First
// contact mints a fresh user UUID; there is no login. All per-user state is
// keyed on this UUID.
func (s *Server) withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			// Tampered or stale cookie: start over with a fresh identity.
			slog.Debug("Resetting invalid session cookie", "error", err)
			session, err = s.sessionStore.New(c.Request(), sessionName)
			if err != nil {
				return apperrors.InternalError("failed to create session", err)
			}
		}

		userID, err := sessionUserID(session.Values[sessionKeyUserID])
		if err != nil {
			userID = uuid.New()
			session.Values[sessionKeyUserID] = userID.String()
			if err := session.Save(c.Request(), c.Response().Writer); err != nil {
				return apperrors.InternalError("failed to save session", err)
			}
		}

		c.Set("userID", userID)
		return next(c)
	}
}

func sessionUserID(value any) (uuid.UUID, error) {
	raw, ok := value.(string)
	if !ok {
		return uuid.Nil, apperrors.ValidationError("missing user id")
	}
	return uuid.Parse(raw)
}

// currentUser reads the UUID placed in the context by withUser.
func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalError("invalid user ID in context", nil)
	}
	return userID, nil
}
