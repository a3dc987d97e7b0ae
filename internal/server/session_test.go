package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Diferti/swibee/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUserMintsAndReusesIdentity(t *testing.T) {
	var seen []uuid.UUID
	srv := newTestServer(t, &mockAppService{
		listLikedFn: func(_ context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
			seen = append(seen, userID)
			return nil, nil
		},
	})

	// First contact: a fresh identity is minted and set as a cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/liked", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Second request with the cookie: same identity.
	req2 := httptest.NewRequest(http.MethodGet, "/api/liked", nil)
	for _, cookie := range cookies {
		req2.AddCookie(cookie)
	}
	rec2 := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec2, req2)

	require.Equal(t, 200, rec2.Code)
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
	assert.NotEqual(t, uuid.Nil, seen[0])
}

func TestWithUserRecoversFromGarbageCookie(t *testing.T) {
	var seen []uuid.UUID
	srv := newTestServer(t, &mockAppService{
		listLikedFn: func(_ context.Context, userID uuid.UUID) ([]domain.DecisionRecord, error) {
			seen = append(seen, userID)
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/liked", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "not-a-valid-session"})
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Len(t, seen, 1)
	assert.NotEqual(t, uuid.Nil, seen[0])
}
