// Package app provides the application service layer.
//
// Orchestrates use cases: profile lifecycle, the swipe feed, the liked and
// disliked tabs, cart pass-through and the popular list. Sits between HTTP
// handlers and domain components. Depends on domain interfaces, not concrete
// implementations.
package app
