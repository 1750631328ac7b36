package backend

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

// MaxInputChars is the advisory input length. Longer texts are still sent.
const MaxInputChars = 400

// Document is user-entered source text.
type Document struct {
	Text string `json:"text"`
}

// AudioJob is a single audio file to transcribe and analyse.
type AudioJob struct {
	Name string // original file name, sent as the multipart filename
	Data []byte
}

// LoadAudioJob reads an audio file from disk.
func LoadAudioJob(path string) (AudioJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AudioJob{}, fmt.Errorf("failed to read audio file: %w", err)
	}
	return AudioJob{Name: filepath.Base(path), Data: data}, nil
}

// MIMEType guesses the content type from the file extension.
func (j AudioJob) MIMEType() string {
	ext := strings.ToLower(filepath.Ext(j.Name))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// TranscriptResult is the outcome of process_audio. Every field is optional.
type TranscriptResult struct {
	Transcript       string           `json:"transcript,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Sentiments       sentiment.Scores `json:"sentiments,omitempty"`
	OverallSentiment string           `json:"overall_sentiment,omitempty"`
}

// Translatable reports whether both transcript and summary are present,
// the precondition for translate_multiple.
func (r TranscriptResult) Translatable() bool {
	return strings.TrimSpace(r.Transcript) != "" && strings.TrimSpace(r.Summary) != ""
}

// TranslationResult is the response of translate.
type TranslationResult struct {
	TranslatedText string `json:"translated_text"`
}

// MultiTranslationRequest is the request of translate_multiple.
type MultiTranslationRequest struct {
	Text1     string `json:"text1"`
	Text2     string `json:"text2"`
	Direction string `json:"direction"`
}

// MultiTranslationResult keeps the submission order: text1 is the
// transcript, text2 the summary.
type MultiTranslationResult struct {
	TranslatedText1 string `json:"translated_text1"`
	TranslatedText2 string `json:"translated_text2"`
}

// POSTag is one token of a POS tagging result, in source order.
type POSTag struct {
	Token string `json:"token"`
	POS   string `json:"pos"`
}

// Keyword is one translated keyword with its relevance score. The order
// returned by the backend is kept.
type Keyword struct {
	Keyword           string  `json:"keyword,omitempty"`
	TranslatedKeyword string  `json:"translated_keyword"`
	Score             float64 `json:"score"`
}

// KeywordsResult is the response of translate_keywords.
type KeywordsResult struct {
	Keywords []Keyword `json:"keywords"`
}

// TextAnalysis is the response of process_text.
type TextAnalysis struct {
	OriginalText     string           `json:"original_text,omitempty"`
	TranslatedText   string           `json:"translated_text,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Sentiments       sentiment.Scores `json:"sentiments,omitempty"`
	OverallSentiment string           `json:"overall_sentiment,omitempty"`
}
