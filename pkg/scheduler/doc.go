// Package scheduler runs component units of work from priority lanes.
//
// Units are pushed into lanes by the lifecycle package and executed one at a
// time. Each fill pass takes work in a fixed order:
//
//  1. destroy and create units, all of them
//  2. one first render
//  3. first rendered effects, children before parents
//  4. props updates, all of them
//  5. one message update
//  6. one priority render (lowest component id)
//  7. one render (lowest component id)
//  8. later rendered effects, children before parents
//
// Renders are keyed by component id, so a second push for the same id
// before the first one runs replaces it. This is what collapses a batch of
// message updates into a single physical render.
//
// Without a Serve loop, Wake drains the queue on the calling goroutine:
//
//	s := scheduler.New()
//	s.PushUpdate(unit)
//	s.Wake()
//
// A Wake issued from inside a running unit returns immediately; the active
// runner picks the new work up before it returns.
package scheduler
