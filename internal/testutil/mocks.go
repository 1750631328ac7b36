package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/notify"
)

// MockClient mocks the remote analysis service. It is safe for concurrent
// use so workflow tests can race submissions against it.
type MockClient struct {
	Translations map[string]string
	POSTags      map[string][]backend.POSTag
	Keywords     map[string][]backend.Keyword
	Transcripts  map[string]backend.TranscriptResult // keyed by audio file name
	Multi        *backend.MultiTranslationResult
	Analyses     map[string]backend.TextAnalysis
	Errors       map[string]error // keyed by backend.Op* name

	// Entered receives the op name once a call is recorded, when non-nil.
	Entered chan string
	// Gate holds every call until it is closed or the context ends, when non-nil.
	Gate chan struct{}

	mu    sync.Mutex
	calls []string
}

// NewMockClient creates an empty mock that answers with default results.
func NewMockClient() *MockClient {
	return &MockClient{
		Translations: make(map[string]string),
		POSTags:      make(map[string][]backend.POSTag),
		Keywords:     make(map[string][]backend.Keyword),
		Transcripts:  make(map[string]backend.TranscriptResult),
		Analyses:     make(map[string]backend.TextAnalysis),
		Errors:       make(map[string]error),
	}
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many calls of op were made. An empty op counts all.
func (m *MockClient) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if op == "" || strings.HasPrefix(c, op+":") {
			n++
		}
	}
	return n
}

func (m *MockClient) enter(ctx context.Context, op, arg string) error {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("%s: %s", op, arg))
	m.mu.Unlock()

	if m.Entered != nil {
		m.Entered <- op
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := m.Errors[op]; ok {
		return err
	}
	return nil
}

// Name returns the backend name
func (m *MockClient) Name() string {
	return "mock"
}

// Translate mocks translating text
func (m *MockClient) Translate(ctx context.Context, text string) (string, error) {
	if err := m.enter(ctx, backend.OpTranslate, text); err != nil {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// POS mocks POS tagging
func (m *MockClient) POS(ctx context.Context, text string) ([]backend.POSTag, error) {
	if err := m.enter(ctx, backend.OpPOS, text); err != nil {
		return nil, err
	}
	if tags, ok := m.POSTags[text]; ok {
		return tags, nil
	}
	return []backend.POSTag{{Token: text, POS: "X"}}, nil
}

// TranslateKeywords mocks keyword extraction
func (m *MockClient) TranslateKeywords(ctx context.Context, text string) ([]backend.Keyword, error) {
	if err := m.enter(ctx, backend.OpTranslateKeywords, text); err != nil {
		return nil, err
	}
	if keywords, ok := m.Keywords[text]; ok {
		return keywords, nil
	}
	return []backend.Keyword{{Keyword: text, TranslatedKeyword: "mock " + text, Score: 1}}, nil
}

// ProcessAudio mocks transcription and analysis
func (m *MockClient) ProcessAudio(ctx context.Context, job backend.AudioJob) (backend.TranscriptResult, error) {
	if err := m.enter(ctx, backend.OpProcessAudio, job.Name); err != nil {
		return backend.TranscriptResult{}, err
	}
	if res, ok := m.Transcripts[job.Name]; ok {
		return res, nil
	}
	return backend.TranscriptResult{
		Transcript:       string(job.Data),
		Summary:          string(job.Data),
		OverallSentiment: "neutral",
	}, nil
}

// TranslateMultiple mocks translating transcript and summary
func (m *MockClient) TranslateMultiple(ctx context.Context, text1, text2, direction string) (backend.MultiTranslationResult, error) {
	if err := m.enter(ctx, backend.OpTranslateMultiple, fmt.Sprintf("%s | %s (%s)", text1, text2, direction)); err != nil {
		return backend.MultiTranslationResult{}, err
	}
	if m.Multi != nil {
		return *m.Multi, nil
	}
	return backend.MultiTranslationResult{
		TranslatedText1: "mock translation of " + text1,
		TranslatedText2: "mock translation of " + text2,
	}, nil
}

// ProcessText mocks text analysis
func (m *MockClient) ProcessText(ctx context.Context, text string) (backend.TextAnalysis, error) {
	if err := m.enter(ctx, backend.OpProcessText, text); err != nil {
		return backend.TextAnalysis{}, err
	}
	if res, ok := m.Analyses[text]; ok {
		return res, nil
	}
	return backend.TextAnalysis{
		OriginalText:     text,
		TranslatedText:   "mock translation of " + text,
		Summary:          text,
		OverallSentiment: "neutral",
	}, nil
}

// Notification is one recorded notification.
type Notification struct {
	Kind    notify.Kind
	Message string
}

// Recorder records notifications instead of showing them.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify implements notify.Notifier.
func (r *Recorder) Notify(kind notify.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of what was recorded.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}
