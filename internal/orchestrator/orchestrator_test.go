package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/guard"
	"codeberg.org/snonux/lingoflow/internal/notify"
	"codeberg.org/snonux/lingoflow/internal/orchestrator"
	"codeberg.org/snonux/lingoflow/internal/sentiment"
	"codeberg.org/snonux/lingoflow/internal/testutil"
)

func newOrchestrator(opts ...orchestrator.Option) (*orchestrator.Orchestrator, *testutil.MockClient, *testutil.Recorder) {
	mock := testutil.NewMockClient()
	rec := &testutil.Recorder{}
	return orchestrator.New(mock, rec, opts...), mock, rec
}

func TestEmptyInputMakesNoCall(t *testing.T) {
	tests := []struct {
		name    string
		submit  func(o *orchestrator.Orchestrator) error
		message string
	}{
		{
			name: "translate",
			submit: func(o *orchestrator.Orchestrator) error {
				_, err := o.SubmitTranslate(context.Background(), "   ")
				return err
			},
			message: orchestrator.MsgTranslateEmpty,
		},
		{
			name: "pos",
			submit: func(o *orchestrator.Orchestrator) error {
				_, err := o.SubmitPOS(context.Background(), "\t\n ")
				return err
			},
			message: orchestrator.MsgPOSEmpty,
		},
		{
			name: "keywords",
			submit: func(o *orchestrator.Orchestrator) error {
				_, err := o.SubmitKeywordTranslate(context.Background(), "")
				return err
			},
			message: orchestrator.MsgKeywordsEmpty,
		},
		{
			name: "analysis",
			submit: func(o *orchestrator.Orchestrator) error {
				_, err := o.SubmitTextAnalysis(context.Background(), "  ")
				return err
			},
			message: orchestrator.MsgAnalysisEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, mock, rec := newOrchestrator()

			if err := tt.submit(o); !errors.Is(err, orchestrator.ErrEmptyInput) {
				t.Fatalf("expected ErrEmptyInput, got %v", err)
			}
			if n := mock.CallCount(""); n != 0 {
				t.Errorf("expected no remote calls, got %d", n)
			}
			last, ok := rec.Last()
			if !ok || last.Kind != notify.Error || last.Message != tt.message {
				t.Errorf("unexpected notification: %+v", last)
			}
			if o.Busy(guard.Translation) || o.Busy(guard.Keyword) {
				t.Error("guard must not be taken for invalid input")
			}
		})
	}
}

func TestSubmitTranslate(t *testing.T) {
	o, mock, rec := newOrchestrator()
	mock.Translations["hello"] = "హలో"

	got, err := o.SubmitTranslate(context.Background(), "  hello ")
	if err != nil {
		t.Fatalf("SubmitTranslate failed: %v", err)
	}
	if got != "హలో" || o.Translation() != "హలో" {
		t.Errorf("translation = %q, stored %q", got, o.Translation())
	}
	if calls := mock.Calls(); len(calls) != 1 || calls[0] != "translate: hello" {
		t.Errorf("input should be trimmed before sending: %v", calls)
	}
	if last, _ := rec.Last(); last.Kind != notify.Success || last.Message != orchestrator.MsgTranslateDone {
		t.Errorf("unexpected notification: %+v", last)
	}
	if o.Busy(guard.Translation) {
		t.Error("guard must be released")
	}
}

func TestRemoteFailureKeepsPriorState(t *testing.T) {
	o, mock, rec := newOrchestrator()
	mock.Translations["hello"] = "హలో"

	if _, err := o.SubmitTranslate(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}

	boom := &backend.RemoteError{Op: backend.OpTranslate, StatusCode: 500, Message: "model offline"}
	mock.Errors[backend.OpTranslate] = boom

	_, err := o.SubmitTranslate(context.Background(), "world")
	if !errors.Is(err, orchestrator.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	var remoteErr *backend.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Errorf("backend error should stay reachable: %v", err)
	}
	if o.Translation() != "హలో" {
		t.Errorf("prior translation overwritten: %q", o.Translation())
	}
	if last, _ := rec.Last(); last.Kind != notify.Error || last.Message != orchestrator.MsgTranslateFailed {
		t.Errorf("unexpected notification: %+v", last)
	}
	if o.Busy(guard.Translation) {
		t.Error("guard must be released after a failure")
	}
}

func TestSecondTranslateWhileInFlightIsRejected(t *testing.T) {
	o, mock, rec := newOrchestrator()
	mock.Entered = make(chan string, 1)
	mock.Gate = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = o.SubmitTranslate(context.Background(), "first")
	}()
	<-mock.Entered

	if _, err := o.SubmitTranslate(context.Background(), "second"); !errors.Is(err, orchestrator.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if _, err := o.SubmitPOS(context.Background(), "second"); !errors.Is(err, orchestrator.ErrBusy) {
		t.Errorf("POS shares the class, expected ErrBusy, got %v", err)
	}
	if n := len(rec.Notifications()); n != 0 {
		t.Errorf("rejections must not notify, got %d notifications", n)
	}

	close(mock.Gate)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("first call failed: %v", firstErr)
	}
	if n := mock.CallCount(""); n != 1 {
		t.Errorf("expected exactly one remote call, got %d", n)
	}
}

func TestKeywordClassIsIndependent(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Entered = make(chan string, 2)
	mock.Gate = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.SubmitTranslate(context.Background(), "hello")
	}()
	<-mock.Entered

	done := make(chan error, 1)
	go func() {
		_, err := o.SubmitKeywordTranslate(context.Background(), "rain rain")
		done <- err
	}()
	if op := <-mock.Entered; op != backend.OpTranslateKeywords {
		t.Fatalf("expected keyword call to start, got %s", op)
	}
	if !o.Busy(guard.Translation) || !o.Busy(guard.Keyword) {
		t.Error("both classes should be busy")
	}

	close(mock.Gate)
	wg.Wait()
	if err := <-done; err != nil {
		t.Errorf("keyword workflow failed: %v", err)
	}
	if len(o.Keywords()) != 1 {
		t.Errorf("keywords not stored: %v", o.Keywords())
	}
}

func TestSubmitPOSAndKeywordsKeepBackendOrder(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.POSTags["hello world"] = []backend.POSTag{{Token: "హలో", POS: "INTJ"}, {Token: "ప్రపంచం", POS: "NOUN"}}
	mock.Keywords["rain"] = []backend.Keyword{
		{TranslatedKeyword: "b", Score: 0.1},
		{TranslatedKeyword: "a", Score: 0.9},
	}

	tags, err := o.SubmitPOS(context.Background(), "hello world")
	if err != nil || len(tags) != 2 || tags[0].POS != "INTJ" {
		t.Fatalf("SubmitPOS() = %v, %v", tags, err)
	}
	keywords, err := o.SubmitKeywordTranslate(context.Background(), "rain")
	if err != nil {
		t.Fatal(err)
	}
	if keywords[0].TranslatedKeyword != "b" || keywords[1].TranslatedKeyword != "a" {
		t.Errorf("keywords were reordered: %v", keywords)
	}
	if len(o.POSTags()) != 2 {
		t.Errorf("tags not stored: %v", o.POSTags())
	}
}

func TestSubmitAudioStoresTranscriptAndClearsMulti(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Transcripts["first.mp3"] = backend.TranscriptResult{Transcript: "a", Summary: "b"}
	mock.Transcripts["clip.mp3"] = backend.TranscriptResult{
		Transcript: "hello",
		Summary:    "hi",
		Sentiments: sentiment.Scores{"joy": 3},
	}

	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "first.mp3"}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.SubmitTranslateMultiple(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := o.MultiTranslation(); !ok {
		t.Fatal("expected a stored multi translation")
	}

	got, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "clip.mp3"})
	if err != nil {
		t.Fatalf("SubmitAudio failed: %v", err)
	}
	want := sentiment.Vector{3, 0, 0, 0, 0, 0, 0, 0}
	if got.Vector != want {
		t.Errorf("Vector = %v, want %v", got.Vector, want)
	}
	stored, ok := o.Transcript()
	if !ok || stored.Transcript != "hello" || stored.Summary != "hi" || stored.FileName != "clip.mp3" {
		t.Errorf("unexpected stored transcript: %+v", stored)
	}
	if _, ok := o.MultiTranslation(); ok {
		t.Error("previous multi translation must be cleared")
	}
}

func TestSubmitAudioFailureKeepsTranscript(t *testing.T) {
	o, mock, rec := newOrchestrator()
	mock.Transcripts["a.mp3"] = backend.TranscriptResult{Transcript: "a", Summary: "b"}

	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.SubmitTranslateMultiple(context.Background()); err != nil {
		t.Fatal(err)
	}

	mock.Errors[backend.OpProcessAudio] = errors.New("upload reset")
	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "b.mp3"}); !errors.Is(err, orchestrator.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}

	if stored, _ := o.Transcript(); stored.FileName != "a.mp3" {
		t.Errorf("transcript overwritten: %+v", stored)
	}
	if _, ok := o.MultiTranslation(); !ok {
		t.Error("multi translation must survive a failed upload")
	}
	if last, _ := rec.Last(); last.Message != orchestrator.MsgAudioFailed {
		t.Errorf("unexpected notification: %+v", last)
	}
}

func TestTranslateMultipleWithoutTranscriptIsNoOp(t *testing.T) {
	tests := []struct {
		name  string
		setup func(o *orchestrator.Orchestrator, mock *testutil.MockClient)
	}{
		{
			name:  "no audio processed",
			setup: func(o *orchestrator.Orchestrator, mock *testutil.MockClient) {},
		},
		{
			name: "summary missing",
			setup: func(o *orchestrator.Orchestrator, mock *testutil.MockClient) {
				mock.Transcripts["a.mp3"] = backend.TranscriptResult{Transcript: "hello"}
				o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, mock, rec := newOrchestrator()
			tt.setup(o, mock)
			before := mock.CallCount("")
			notes := len(rec.Notifications())

			if _, err := o.SubmitTranslateMultiple(context.Background()); !errors.Is(err, orchestrator.ErrNoTranscript) {
				t.Fatalf("expected ErrNoTranscript, got %v", err)
			}
			if mock.CallCount("") != before {
				t.Error("no call may be issued")
			}
			if len(rec.Notifications()) != notes {
				t.Error("no notification expected")
			}
			if _, ok := o.MultiTranslation(); ok {
				t.Error("state must not change")
			}
			if o.CanTranslateTranscript() {
				t.Error("CanTranslateTranscript() should be false")
			}
		})
	}
}

func TestTranslateMultipleUsesDirection(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Transcripts["a.mp3"] = backend.TranscriptResult{Transcript: "hello", Summary: "hi"}
	mock.Multi = &backend.MultiTranslationResult{TranslatedText1: "t1", TranslatedText2: "t2"}

	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"}); err != nil {
		t.Fatal(err)
	}
	if !o.CanTranslateTranscript() {
		t.Fatal("CanTranslateTranscript() should be true")
	}
	if d := o.ToggleDirection(); d != direction.Reverse {
		t.Fatalf("ToggleDirection() = %v", d)
	}

	got, err := o.SubmitTranslateMultiple(context.Background())
	if err != nil {
		t.Fatalf("SubmitTranslateMultiple failed: %v", err)
	}
	calls := mock.Calls()
	if last := calls[len(calls)-1]; last != "translate_multiple: hello | hi (te-to-en)" {
		t.Errorf("unexpected request: %s", last)
	}
	if got.TranslatedText1 != "t1" || got.TranslatedText2 != "t2" {
		t.Errorf("order of results changed: %+v", got)
	}

	// Toggling back keeps the stale result with its own labels
	o.ToggleDirection()
	stored, ok := o.MultiTranslation()
	if !ok {
		t.Fatal("toggle must not clear the stored result")
	}
	if stored.Direction != direction.Reverse {
		t.Errorf("stored direction = %v, want reverse", stored.Direction)
	}
	if stored.TranscriptLabel() != "Translated Transcript (English)" {
		t.Errorf("TranscriptLabel() = %q", stored.TranscriptLabel())
	}
	if o.Direction() != direction.Forward {
		t.Errorf("Direction() = %v, want forward", o.Direction())
	}
}

func TestAudioClassBlocksTranslateMultiple(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Transcripts["a.mp3"] = backend.TranscriptResult{Transcript: "hello", Summary: "hi"}
	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"}); err != nil {
		t.Fatal(err)
	}

	mock.Entered = make(chan string, 1)
	mock.Gate = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"})
	}()
	<-mock.Entered

	if _, err := o.SubmitTranslateMultiple(context.Background()); !errors.Is(err, orchestrator.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if o.Busy(guard.Translation) {
		t.Error("text workflows are independent of audio")
	}

	close(mock.Gate)
	<-done
}

func TestDeadlineReleasesGuard(t *testing.T) {
	o, mock, rec := newOrchestrator(orchestrator.WithTimeouts(20*time.Millisecond, 0))
	mock.Gate = make(chan struct{})
	defer close(mock.Gate)

	_, err := o.SubmitTranslate(context.Background(), "hello")
	if !errors.Is(err, orchestrator.ErrRemote) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected remote deadline error, got %v", err)
	}
	if o.Busy(guard.Translation) {
		t.Error("guard must be released after the deadline")
	}
	if last, _ := rec.Last(); last.Message != orchestrator.MsgTranslateFailed {
		t.Errorf("unexpected notification: %+v", last)
	}
}

func TestSubmitTextAnalysis(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Analyses["I am happy."] = backend.TextAnalysis{
		TranslatedText:   "నేను సంతోషంగా ఉన్నాను.",
		Summary:          "I am happy.",
		Sentiments:       sentiment.Scores{"joy": 0.8, "love": 0.2},
		OverallSentiment: "positive",
	}

	got, err := o.SubmitTextAnalysis(context.Background(), "I am happy.")
	if err != nil {
		t.Fatalf("SubmitTextAnalysis failed: %v", err)
	}
	if got.Vector != (sentiment.Vector{0.8, 0, 0, 0, 0, 0, 0, 0.2}) {
		t.Errorf("Vector = %v", got.Vector)
	}
	if stored, ok := o.Analysis(); !ok || stored.OverallSentiment != "positive" {
		t.Errorf("analysis not stored: %+v", stored)
	}
}

func TestGuardChangesAreObservable(t *testing.T) {
	g := guard.New()
	var mu sync.Mutex
	var events []bool
	g.OnChange(func(c guard.Class, busy bool) {
		if c == guard.Translation {
			mu.Lock()
			events = append(events, busy)
			mu.Unlock()
		}
	})

	o, _, _ := newOrchestrator(orchestrator.WithGuard(g))
	if o.Guard() != g {
		t.Fatal("Guard() should return the shared guard")
	}
	if _, err := o.SubmitTranslate(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("expected busy then idle, got %v", events)
	}
}

func TestWithDirection(t *testing.T) {
	o, _, _ := newOrchestrator(orchestrator.WithDirection(direction.Reverse))
	if o.Direction() != direction.Reverse {
		t.Errorf("Direction() = %v, want reverse", o.Direction())
	}
}

func TestLongInputIsSentWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	o, mock, rec := newOrchestrator(orchestrator.WithLogger(zap.New(core).Sugar()))

	long := strings.Repeat("a", backend.MaxInputChars+1)
	if _, err := o.SubmitTranslate(context.Background(), long); err != nil {
		t.Fatalf("SubmitTranslate() error = %v", err)
	}
	if got := mock.CallCount(backend.OpTranslate); got != 1 {
		t.Errorf("Expected 1 translate call, got %d", got)
	}
	if last, _ := rec.Last(); last.Kind != notify.Success {
		t.Errorf("Expected success notification, got %+v", last)
	}

	entries := logs.FilterMessage("input exceeds recommended length").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 length warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["chars"]; got != int64(backend.MaxInputChars+1) {
		t.Errorf("chars field = %v (%T)", got, got)
	}
}

func TestTranslateMultipleRechecksTranscriptUnderGuard(t *testing.T) {
	g := guard.New()
	o, mock, rec := newOrchestrator(orchestrator.WithGuard(g))
	mock.Transcripts["full.mp3"] = backend.TranscriptResult{Transcript: "hello", Summary: "hi"}
	mock.Transcripts["partial.mp3"] = backend.TranscriptResult{Transcript: "bye"}

	if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "full.mp3"}); err != nil {
		t.Fatalf("SubmitAudio failed: %v", err)
	}

	// Once translate-multiple has passed its precondition and holds the
	// audio class, swap in a transcript without summary.
	armed := true
	g.OnChange(func(c guard.Class, busy bool) {
		if !armed || c != guard.Audio || !busy {
			return
		}
		armed = false
		g.Exit(guard.Audio)
		if _, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "partial.mp3"}); err != nil {
			t.Errorf("SubmitAudio failed: %v", err)
		}
		g.TryEnter(guard.Audio)
	})
	notes := len(rec.Notifications())

	_, err := o.SubmitTranslateMultiple(context.Background())
	if !errors.Is(err, orchestrator.ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
	if got := mock.CallCount(backend.OpTranslateMultiple); got != 0 {
		t.Errorf("Expected no translate_multiple call, got %d", got)
	}
	// Only the swapped-in audio job notifies.
	if got := len(rec.Notifications()) - notes; got != 1 {
		t.Errorf("Expected 1 new notification, got %d", got)
	}
	if g.Busy(guard.Audio) {
		t.Error("audio class must be released")
	}
}

func TestAccessorsReturnIndependentSentiments(t *testing.T) {
	o, mock, _ := newOrchestrator()
	mock.Transcripts["a.mp3"] = backend.TranscriptResult{
		Transcript: "hello",
		Summary:    "hi",
		Sentiments: sentiment.Scores{"joy": 3},
	}
	mock.Analyses["hello"] = backend.TextAnalysis{Sentiments: sentiment.Scores{"anger": 1}}

	submitted, err := o.SubmitAudio(context.Background(), backend.AudioJob{Name: "a.mp3"})
	if err != nil {
		t.Fatalf("SubmitAudio failed: %v", err)
	}
	submitted.Sentiments["joy"] = 100
	got, _ := o.Transcript()
	got.Sentiments["joy"] = 50
	if again, _ := o.Transcript(); again.Sentiments["joy"] != 3 {
		t.Errorf("stored transcript changed: joy = %v", again.Sentiments["joy"])
	}

	analysis, err := o.SubmitTextAnalysis(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SubmitTextAnalysis failed: %v", err)
	}
	analysis.Sentiments["anger"] = 9
	stored, _ := o.Analysis()
	delete(stored.Sentiments, "anger")
	if again, _ := o.Analysis(); again.Sentiments["anger"] != 1 {
		t.Errorf("stored analysis changed: %v", again.Sentiments)
	}
}
