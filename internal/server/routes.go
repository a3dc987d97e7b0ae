package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no session required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Popular tab is anonymous-friendly; no user state involved.
	s.echo.GET("/api/popular", s.handlePopular)

	// Everything below is scoped to the cookie-identified user.
	api := s.echo.Group("/api", s.withUser)

	api.GET("/profile", s.handleGetProfile)
	api.PUT("/profile", s.handleSaveProfile)
	api.DELETE("/profile", s.handleDeleteProfile)

	api.GET("/feed/next", s.handleFeedNext)
	api.POST("/feed/swipe", s.handleFeedSwipe)

	api.GET("/liked", s.handleListLiked)
	api.DELETE("/liked/:id", s.handleRemoveLiked)
	api.POST("/liked/:id/cart", s.handleAddToCart)

	api.GET("/disliked", s.handleListDisliked)
	api.POST("/disliked/:id/restore", s.handleRestoreDisliked)
	api.POST("/disliked/:id/like", s.handleMoveToLiked)
}
