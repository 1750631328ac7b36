package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/guard"
	"codeberg.org/snonux/lingoflow/internal/notify"
	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

var (
	// ErrEmptyInput is returned when the text is blank. No call is made.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned when the workflow's guard class is in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNoTranscript is returned by SubmitTranslateMultiple when there is
	// no transcript and summary to translate.
	ErrNoTranscript = errors.New("no transcript to translate")
	// ErrRemote wraps every backend failure.
	ErrRemote = errors.New("remote operation failed")
)

// Default deadlines for a single remote call.
const (
	DefaultTextTimeout  = 60 * time.Second
	DefaultAudioTimeout = 5 * time.Minute
)

// Transcript is the stored outcome of the audio workflow.
type Transcript struct {
	backend.TranscriptResult
	FileName string
	Vector   sentiment.Vector
}

// MultiTranslation is a translated transcript and summary together with the
// direction it was requested in. Labels come from that direction, not from
// the current toggle.
type MultiTranslation struct {
	backend.MultiTranslationResult
	Direction direction.Direction
}

// TranscriptLabel is the display label of the translated transcript.
func (m MultiTranslation) TranscriptLabel() string {
	return m.Direction.LabelFor(direction.SlotTranscript)
}

// SummaryLabel is the display label of the translated summary.
func (m MultiTranslation) SummaryLabel() string {
	return m.Direction.LabelFor(direction.SlotSummary)
}

// Analysis is the stored outcome of the text analysis workflow.
type Analysis struct {
	backend.TextAnalysis
	Vector sentiment.Vector
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeouts sets the per-call deadlines. Zero keeps the default.
func WithTimeouts(text, audio time.Duration) Option {
	return func(o *Orchestrator) {
		if text > 0 {
			o.textTimeout = text
		}
		if audio > 0 {
			o.audioTimeout = audio
		}
	}
}

// WithGuard shares an existing guard, e.g. one the GUI already observes.
func WithGuard(g *guard.Guard) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.guard = g
		}
	}
}

// WithDirection sets the initial translation direction.
func WithDirection(d direction.Direction) Option {
	return func(o *Orchestrator) {
		o.direction.Set(d)
	}
}

// Orchestrator owns the workflow state. It is safe for concurrent use.
type Orchestrator struct {
	client    backend.Client
	notifier  notify.Notifier
	guard     *guard.Guard
	direction *direction.State
	logger    *zap.SugaredLogger

	textTimeout  time.Duration
	audioTimeout time.Duration

	mu          sync.RWMutex
	translation string
	posTags     []backend.POSTag
	keywords    []backend.Keyword
	analysis    *Analysis
	transcript  *Transcript
	multi       *MultiTranslation
}

// New creates an orchestrator. A nil notifier discards notifications.
func New(client backend.Client, notifier notify.Notifier, opts ...Option) *Orchestrator {
	if notifier == nil {
		notifier = notify.Discard
	}
	o := &Orchestrator{
		client:       client,
		notifier:     notifier,
		guard:        guard.New(),
		direction:    direction.NewState(),
		logger:       zap.NewNop().Sugar(),
		textTimeout:  DefaultTextTimeout,
		audioTimeout: DefaultAudioTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Guard returns the guard so callers can observe busy changes.
func (o *Orchestrator) Guard() *guard.Guard {
	return o.guard
}

// Busy reports whether a workflow of class c is in flight.
func (o *Orchestrator) Busy(c guard.Class) bool {
	return o.guard.Busy(c)
}

// Direction returns the current translation direction.
func (o *Orchestrator) Direction() direction.Direction {
	return o.direction.Current()
}

// ToggleDirection flips the direction used by the next translate-multiple
// call. A stored MultiTranslation is kept and keeps its own labels.
func (o *Orchestrator) ToggleDirection() direction.Direction {
	d := o.direction.Toggle()
	o.logger.Debugw("direction toggled", "direction", d.Code())
	return d
}

// workflow describes one text workflow's guard class and messages.
type workflow struct {
	op      string
	class   guard.Class
	empty   string
	done    string
	failed  string
	timeout time.Duration
}

// run validates the input, holds the guard for the call and reports the
// outcome. call stores its own result and only runs the remote request.
func (o *Orchestrator) run(ctx context.Context, w workflow, text string, call func(ctx context.Context, text string) error) error {
	text = strings.TrimSpace(text)
	if text == "" {
		o.notifier.Notify(notify.Error, w.empty)
		return ErrEmptyInput
	}
	if n := utf8.RuneCountInString(text); n > backend.MaxInputChars {
		o.logger.Warnw("input exceeds recommended length", "op", w.op, "chars", n, "limit", backend.MaxInputChars)
	}
	return o.guarded(ctx, w, func(ctx context.Context) error {
		return call(ctx, text)
	})
}

func (o *Orchestrator) guarded(ctx context.Context, w workflow, call func(ctx context.Context) error) error {
	release, ok := o.guard.Acquire(w.class)
	if !ok {
		o.logger.Debugw("submission rejected, class busy", "op", w.op, "class", w.class.String())
		return ErrBusy
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := call(ctx)
	if errors.Is(err, ErrNoTranscript) {
		o.logger.Debugw("nothing to translate", "op", w.op)
		return err
	}
	if err != nil {
		o.logger.Warnw("workflow failed", "op", w.op, "backend", o.client.Name(), "duration", time.Since(start), "error", err)
		o.notifier.Notify(notify.Error, w.failed)
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	o.logger.Infow("workflow done", "op", w.op, "duration", time.Since(start))
	o.notifier.Notify(notify.Success, w.done)
	return nil
}

// SubmitTranslate translates text and stores the translation.
func (o *Orchestrator) SubmitTranslate(ctx context.Context, text string) (string, error) {
	var out string
	err := o.run(ctx, workflow{
		op: backend.OpTranslate, class: guard.Translation, timeout: o.textTimeout,
		empty: MsgTranslateEmpty, done: MsgTranslateDone, failed: MsgTranslateFailed,
	}, text, func(ctx context.Context, text string) error {
		translated, err := o.client.Translate(ctx, text)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.translation = translated
		o.mu.Unlock()
		out = translated
		return nil
	})
	return out, err
}

// SubmitPOS tags text and stores the tags. It shares the guard class with
// SubmitTranslate.
func (o *Orchestrator) SubmitPOS(ctx context.Context, text string) ([]backend.POSTag, error) {
	var out []backend.POSTag
	err := o.run(ctx, workflow{
		op: backend.OpPOS, class: guard.Translation, timeout: o.textTimeout,
		empty: MsgPOSEmpty, done: MsgPOSDone, failed: MsgPOSFailed,
	}, text, func(ctx context.Context, text string) error {
		tags, err := o.client.POS(ctx, text)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.posTags = tags
		o.mu.Unlock()
		out = tags
		return nil
	})
	return out, err
}

// SubmitKeywordTranslate extracts and translates keywords under the
// independent keyword guard class. The backend order is kept.
func (o *Orchestrator) SubmitKeywordTranslate(ctx context.Context, text string) ([]backend.Keyword, error) {
	var out []backend.Keyword
	err := o.run(ctx, workflow{
		op: backend.OpTranslateKeywords, class: guard.Keyword, timeout: o.textTimeout,
		empty: MsgKeywordsEmpty, done: MsgKeywordsDone, failed: MsgKeywordsFailed,
	}, text, func(ctx context.Context, text string) error {
		keywords, err := o.client.TranslateKeywords(ctx, text)
		if err != nil {
			return err
		}
		o.mu.Lock()
		o.keywords = keywords
		o.mu.Unlock()
		out = keywords
		return nil
	})
	return out, err
}

// SubmitTextAnalysis translates, summarises and scores text.
func (o *Orchestrator) SubmitTextAnalysis(ctx context.Context, text string) (Analysis, error) {
	var out Analysis
	err := o.run(ctx, workflow{
		op: backend.OpProcessText, class: guard.Translation, timeout: o.textTimeout,
		empty: MsgAnalysisEmpty, done: MsgAnalysisDone, failed: MsgAnalysisFailed,
	}, text, func(ctx context.Context, text string) error {
		res, err := o.client.ProcessText(ctx, text)
		if err != nil {
			return err
		}
		a := Analysis{TextAnalysis: res, Vector: sentiment.Normalize(res.Sentiments)}
		o.mu.Lock()
		o.analysis = &a
		o.mu.Unlock()
		out = a
		out.Sentiments = maps.Clone(a.Sentiments)
		return nil
	})
	return out, err
}

// SubmitAudio uploads job for transcription and analysis. On success the
// transcript replaces the previous one and any stored MultiTranslation is
// cleared.
func (o *Orchestrator) SubmitAudio(ctx context.Context, job backend.AudioJob) (Transcript, error) {
	var out Transcript
	err := o.guarded(ctx, workflow{
		op: backend.OpProcessAudio, class: guard.Audio, timeout: o.audioTimeout,
		done: MsgAudioDone, failed: MsgAudioFailed,
	}, func(ctx context.Context) error {
		res, err := o.client.ProcessAudio(ctx, job)
		if err != nil {
			return err
		}
		t := Transcript{
			TranscriptResult: res,
			FileName:         job.Name,
			Vector:           sentiment.Normalize(res.Sentiments),
		}
		o.mu.Lock()
		o.transcript = &t
		o.multi = nil
		o.mu.Unlock()
		out = t
		out.Sentiments = maps.Clone(t.Sentiments)
		return nil
	})
	return out, err
}

// SubmitTranslateMultiple translates the stored transcript and summary in
// the current direction. Without a translatable transcript it is a no-op
// returning ErrNoTranscript.
func (o *Orchestrator) SubmitTranslateMultiple(ctx context.Context) (MultiTranslation, error) {
	o.mu.RLock()
	t := o.transcript
	o.mu.RUnlock()
	if t == nil || !t.Translatable() {
		return MultiTranslation{}, ErrNoTranscript
	}

	var out MultiTranslation
	err := o.guarded(ctx, workflow{
		op: backend.OpTranslateMultiple, class: guard.Audio, timeout: o.textTimeout,
		done: MsgMultiDone, failed: MsgMultiFailed,
	}, func(ctx context.Context) error {
		// Audio shares the guard class, so the transcript cannot change now.
		o.mu.RLock()
		t := o.transcript
		o.mu.RUnlock()
		if t == nil || !t.Translatable() {
			return ErrNoTranscript
		}

		dir := o.direction.Current()
		res, err := o.client.TranslateMultiple(ctx, t.Transcript, t.Summary, dir.Code())
		if err != nil {
			return err
		}
		m := MultiTranslation{MultiTranslationResult: res, Direction: dir}
		o.mu.Lock()
		o.multi = &m
		o.mu.Unlock()
		out = m
		return nil
	})
	return out, err
}

// Translation returns the last translation.
func (o *Orchestrator) Translation() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.translation
}

// POSTags returns the last POS tags.
func (o *Orchestrator) POSTags() []backend.POSTag {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.posTags
}

// Keywords returns the last translated keywords.
func (o *Orchestrator) Keywords() []backend.Keyword {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.keywords
}

// Analysis returns the last text analysis, if any.
func (o *Orchestrator) Analysis() (Analysis, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.analysis == nil {
		return Analysis{}, false
	}
	a := *o.analysis
	a.Sentiments = maps.Clone(a.Sentiments)
	return a, true
}

// Transcript returns the current transcript, if any.
func (o *Orchestrator) Transcript() (Transcript, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.transcript == nil {
		return Transcript{}, false
	}
	t := *o.transcript
	t.Sentiments = maps.Clone(t.Sentiments)
	return t, true
}

// MultiTranslation returns the current translated transcript and summary,
// if any.
func (o *Orchestrator) MultiTranslation() (MultiTranslation, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.multi == nil {
		return MultiTranslation{}, false
	}
	return *o.multi, true
}

// CanTranslateTranscript reports whether SubmitTranslateMultiple would issue
// a call.
func (o *Orchestrator) CanTranslateTranscript() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.transcript != nil && o.transcript.Translatable()
}
