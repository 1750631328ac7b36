// Package backend provides clients for the remote text and audio analysis
// service. The HTTP client talks to the analysis service directly; the OpenAI
// and Gemini clients answer the same operations with hosted models. Any
// client can be wrapped in a circuit breaker.
package backend
