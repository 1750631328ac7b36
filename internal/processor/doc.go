// Package processor contains the command-line coordination for lingoflow.
// It runs the text, audio and batch workflows through the orchestrator,
// prints their results, and launches the GUI when no input is given.
package processor
