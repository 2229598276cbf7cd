// Package vtest provides testing helpers for lifecycle components.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New()
//	    scope := vtest.Mount(h, Counter, CounterProps{Start: 1})
//	    vtest.ExpectHTML(t, h, "<p>1</p>")
//
//	    scope.SendMessage(Increment)
//	    vtest.ExpectHTML(t, h, "<p>2</p>")
//	}
//
// Mount and SendMessage run queued units before they return, so assertions
// can follow directly. Work resumed from other goroutines (suspensions)
// needs WaitFor.
//
// # Recording Hooks
//
// A Recorder collects hook names in order, for asserting lifecycle
// ordering:
//
//	rec := vtest.NewRecorder()
//	// components call rec.Record("view"), rec.Recordf("rendered(%t)", first)
//	rec.Expect(t, "create", "view", "rendered(true)")
package vtest
