// Package orchestrator coordinates the user workflows against the remote
// analysis service.
//
// Each workflow validates its input locally, takes its guard class, calls
// the backend once under a deadline, stores the result and reports the
// outcome to a notifier. A failed call never touches previously stored
// results. The audio workflow keeps its transcript so that the transcript
// and summary can later be translated in the current direction.
//
// Workflow methods block until the remote call returns. Callers that need
// asynchrony, such as the GUI, run them in their own goroutine.
package orchestrator
