// Package feed implements the swipe feed engine using the actor pattern.
//
// The Engine owns every feed session: the deduplicated item buffer, the
// viewing cursor, the look-ahead fetch trigger, and the swipe commit state
// machine. A single goroutine processes commands off a channel (no mutexes),
// which makes every state transition serial; page fetches and the commit
// delay run off-actor and re-enter as commands stamped with the session
// generation, so results for stale criteria are discarded on arrival.
package feed
