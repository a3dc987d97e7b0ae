// Package server implements the HTTP server using Echo framework.
//
// Routes: profile (setup/edit/delete), feed (next/swipe), liked and disliked
// tabs, popular, observability. Handlers split by surface: handlers_profile.go,
// handlers_feed.go, handlers_tabs.go, handlers_health.go.
package server
