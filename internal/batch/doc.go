// Package batch reads batch files for the command-line mode: one text per
// line, optionally prefixed with the workflow to run for it.
package batch
