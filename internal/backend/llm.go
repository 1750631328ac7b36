package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/lingoflow/internal/direction"
	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

// promptFunc sends one system+user prompt pair and returns the raw JSON text
// of the model answer.
type promptFunc func(ctx context.Context, system, user string) (string, error)

// transcribeFunc turns an audio job into plain text.
type transcribeFunc func(ctx context.Context, job AudioJob) (string, error)

// modelBackend answers every operation by prompting a hosted model for JSON.
// The OpenAI and Gemini clients embed it and supply prompt and transcribe.
type modelBackend struct {
	name       string
	prompt     promptFunc
	transcribe transcribeFunc
	logger     *zap.SugaredLogger
}

const systemPrompt = "You are a precise English/Telugu language service. " +
	"Answer with a single JSON object exactly matching the requested shape and nothing else."

// Name returns the backend name
func (b *modelBackend) Name() string {
	return b.name
}

func (b *modelBackend) ask(ctx context.Context, op, user string, out any) error {
	start := time.Now()
	raw, err := b.prompt(ctx, systemPrompt, user)
	if err != nil {
		b.logger.Warnw("model call failed", "backend", b.name, "op", op, "error", err)
		return fmt.Errorf("%s: %s API error: %w", op, b.name, err)
	}
	b.logger.Debugw("model answered", "backend", b.name, "op", op, "duration", time.Since(start))

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), out); err != nil {
		return fmt.Errorf("%s: invalid JSON from %s: %w", op, b.name, err)
	}
	return nil
}

// Translate implements Client.
func (b *modelBackend) Translate(ctx context.Context, text string) (string, error) {
	var out TranslationResult
	prompt := fmt.Sprintf(`Translate the following English text to Telugu.
Return {"translated_text": "<Telugu translation>"}.

Text:
%s`, text)
	if err := b.ask(ctx, OpTranslate, prompt, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.TranslatedText), nil
}

// POS tags the Telugu translation of text with Universal POS tags.
func (b *modelBackend) POS(ctx context.Context, text string) ([]POSTag, error) {
	var out struct {
		Tags []POSTag `json:"tags"`
	}
	prompt := fmt.Sprintf(`Translate the following English text to Telugu, then split the Telugu
translation into words and tag each word with its Universal Dependencies UPOS tag
(NOUN, VERB, ADJ, ADV, PRON, PROPN, NUM, ADP, AUX, CCONJ, SCONJ, DET, PART, INTJ, PUNCT, SYM, X).
Keep the word order of the translation.
Return {"tags": [{"token": "<word>", "pos": "<UPOS>"}]}.

Text:
%s`, text)
	if err := b.ask(ctx, OpPOS, prompt, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

// TranslateKeywords extracts the six most relevant keywords and translates
// each to Telugu.
func (b *modelBackend) TranslateKeywords(ctx context.Context, text string) ([]Keyword, error) {
	var out KeywordsResult
	prompt := fmt.Sprintf(`Extract the six most important English keywords (no stop words) from the
text below, ordered from most to least relevant. Give each a relevance score between 0 and 1
and its Telugu translation.
Return {"keywords": [{"keyword": "<english>", "translated_keyword": "<telugu>", "score": <number>}]}.

Text:
%s`, text)
	if err := b.ask(ctx, OpTranslateKeywords, prompt, &out); err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

// TranslateMultiple implements Client.
func (b *modelBackend) TranslateMultiple(ctx context.Context, text1, text2, code string) (MultiTranslationResult, error) {
	dir, err := direction.Parse(code)
	if err != nil {
		return MultiTranslationResult{}, fmt.Errorf("%s: %w", OpTranslateMultiple, err)
	}

	var out MultiTranslationResult
	prompt := fmt.Sprintf(`Translate both texts from %s to %s independently.
Return {"translated_text1": "<translation of text 1>", "translated_text2": "<translation of text 2>"}.

Text 1:
%s

Text 2:
%s`, dir.Source(), dir.Target(), text1, text2)
	if err := b.ask(ctx, OpTranslateMultiple, prompt, &out); err != nil {
		return MultiTranslationResult{}, err
	}
	return out, nil
}

// analysis is the model answer shared by process_text and process_audio.
type analysis struct {
	TranslatedText   string           `json:"translated_text"`
	Summary          string           `json:"summary"`
	Sentiments       sentiment.Scores `json:"sentiments"`
	OverallSentiment string           `json:"overall_sentiment"`
}

func (b *modelBackend) analyse(ctx context.Context, op, text string, translate bool) (analysis, error) {
	translation := ""
	if translate {
		translation = `"translated_text": "<Telugu translation of the full text>", `
	}
	prompt := fmt.Sprintf(`Analyse the text below.
Write a summary of 30 to 100 words. Score each emotion between 0 and 1:
joy, anger, sadness, fear, neutral, surprise, disgust, love.
Return {%s"summary": "<summary>", "sentiments": {"joy": <number>, ...}, "overall_sentiment": "positive|negative|neutral"}.

Text:
%s`, translation, text)

	var out analysis
	if err := b.ask(ctx, op, prompt, &out); err != nil {
		return analysis{}, err
	}
	if out.OverallSentiment == "" {
		out.OverallSentiment = sentiment.Overall(sentiment.Normalize(out.Sentiments))
	}
	return out, nil
}

// ProcessText implements Client.
func (b *modelBackend) ProcessText(ctx context.Context, text string) (TextAnalysis, error) {
	a, err := b.analyse(ctx, OpProcessText, text, true)
	if err != nil {
		return TextAnalysis{}, err
	}
	return TextAnalysis{
		OriginalText:     text,
		TranslatedText:   a.TranslatedText,
		Summary:          a.Summary,
		Sentiments:       a.Sentiments,
		OverallSentiment: a.OverallSentiment,
	}, nil
}

// ProcessAudio transcribes the job and analyses the transcript.
func (b *modelBackend) ProcessAudio(ctx context.Context, job AudioJob) (TranscriptResult, error) {
	transcript, err := b.transcribe(ctx, job)
	if err != nil {
		b.logger.Warnw("transcription failed", "backend", b.name, "file", job.Name, "error", err)
		return TranscriptResult{}, fmt.Errorf("%s: transcription failed: %w", OpProcessAudio, err)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return TranscriptResult{}, nil
	}

	a, err := b.analyse(ctx, OpProcessAudio, transcript, false)
	if err != nil {
		return TranscriptResult{}, err
	}
	return TranscriptResult{
		Transcript:       transcript,
		Summary:          a.Summary,
		Sentiments:       a.Sentiments,
		OverallSentiment: a.OverallSentiment,
	}, nil
}

// stripCodeFence removes a ```json fence some models wrap answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
