// Package errors provides structured, coded errors for the lifecycle engine.
//
// Every error carries a registered code (e.g. "E045") that maps to a
// category, a short message and a longer explanation. Fatal lifecycle
// faults such as a hydration mismatch are raised as panics carrying an
// *Error so that a host can recover and inspect them:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        if err, ok := r.(error); ok && errors.Is(err, lifecycle.ErrHydrationMismatch) {
//	            // server and client trees diverged
//	        }
//	    }
//	}()
//
// Two errors are considered equal by errors.Is when their codes match.
package errors
