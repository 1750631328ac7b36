// Package guard implements per-class mutual exclusion for remote workflows.
// A class that is busy rejects new entries instead of queueing them.
package guard

import "sync"

// Class is an independent mutual-exclusion domain.
type Class int

const (
	// Translation covers single-text translate, POS tagging and text analysis.
	Translation Class = iota
	// Keyword covers keyword extraction and translation.
	Keyword
	// Audio covers audio processing and translation of its results.
	Audio
)

func (c Class) String() string {
	switch c {
	case Translation:
		return "translation"
	case Keyword:
		return "keyword"
	case Audio:
		return "audio"
	default:
		return "unknown"
	}
}

// Guard holds one busy flag per class.
type Guard struct {
	mu        sync.Mutex
	busy      map[Class]bool
	listeners []func(Class, bool)
}

// New creates a guard with every class idle.
func New() *Guard {
	return &Guard{busy: make(map[Class]bool)}
}

// TryEnter marks c busy and returns true, or returns false without any change
// when c is already busy.
func (g *Guard) TryEnter(c Class) bool {
	g.mu.Lock()
	if g.busy[c] {
		g.mu.Unlock()
		return false
	}
	g.busy[c] = true
	listeners := g.listeners
	g.mu.Unlock()

	notifyAll(listeners, c, true)
	return true
}

// Exit clears the busy flag of c unconditionally.
func (g *Guard) Exit(c Class) {
	g.mu.Lock()
	changed := g.busy[c]
	g.busy[c] = false
	listeners := g.listeners
	g.mu.Unlock()

	if changed {
		notifyAll(listeners, c, false)
	}
}

// Acquire is TryEnter returning a release func for use with defer.
// The release func is safe to call more than once.
func (g *Guard) Acquire(c Class) (release func(), ok bool) {
	if !g.TryEnter(c) {
		return func() {}, false
	}
	var once sync.Once
	return func() { once.Do(func() { g.Exit(c) }) }, true
}

// Busy reports whether c is currently held.
func (g *Guard) Busy(c Class) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[c]
}

// OnChange registers fn to be called after a class flips between idle and
// busy. fn runs on the goroutine that caused the change, outside the lock.
func (g *Guard) OnChange(fn func(c Class, busy bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func notifyAll(listeners []func(Class, bool), c Class, busy bool) {
	for _, fn := range listeners {
		fn(c, busy)
	}
}
