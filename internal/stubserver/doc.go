// Package stubserver implements the analysis service endpoints with
// deterministic answers: a small English/Telugu dictionary, whitespace
// tokenisation, term-frequency keywords and a word-list sentiment scorer.
// It backs local development and the HTTP client tests.
package stubserver
