package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// relevantChatModels are the families that follow JSON instructions well
// enough for the analysis prompts.
var relevantChatModels = []string{"gpt-4o", "gpt-4.1", "gpt-4", "gpt-3.5"}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		out:    os.Stdout,
	}
}

// NewListerWithConfig creates a lister for a custom endpoint, e.g. an
// OpenAI-compatible proxy, printing to out
func NewListerWithConfig(config openai.ClientConfig, apiKey string, out io.Writer) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
		out:    out,
	}
}

// Catalog groups model ids by what the openai backend can use them for.
type Catalog struct {
	Transcription []string
	Chat          []string
}

// Categorize sorts model ids into transcription and chat models. Other
// models are ignored.
func Categorize(ids []string) Catalog {
	var c Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.Transcription = append(c.Transcription, id)
		case strings.Contains(id, "tts") || strings.Contains(id, "audio") || strings.Contains(id, "realtime"):
			// Speech output and realtime models cannot serve the prompts
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.Transcription)
	sort.Strings(c.Chat)
	return c
}

// ListAvailableModels lists the OpenAI models usable by the openai backend
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .lingoflow.yaml")
	}

	// List models
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	catalog := Categorize(ids)

	// Print models
	fmt.Fprintln(l.out, "Available OpenAI Models:")
	fmt.Fprintln(l.out, "\nTranscription Models (--openai-transcription-model):")
	if len(catalog.Transcription) == 0 {
		fmt.Fprintln(l.out, "  No transcription models found")
	} else {
		for _, model := range catalog.Transcription {
			fmt.Fprintf(l.out, "  %s\n", model)
		}
	}

	fmt.Fprintln(l.out, "\nChat Models for translation and analysis (--openai-model):")
	if len(catalog.Chat) > 10 {
		// Show only relevant models
		relevantModels := []string{}
		for _, model := range catalog.Chat {
			if isRelevantChatModel(model) {
				relevantModels = append(relevantModels, model)
			}
		}
		for _, model := range relevantModels {
			fmt.Fprintf(l.out, "  %s\n", model)
		}
		fmt.Fprintf(l.out, "  ... and %d more models\n", len(catalog.Chat)-len(relevantModels))
	} else {
		for _, model := range catalog.Chat {
			fmt.Fprintf(l.out, "  %s\n", model)
		}
	}

	return nil
}

func isRelevantChatModel(model string) bool {
	for _, family := range relevantChatModels {
		if strings.HasPrefix(model, family) {
			return true
		}
	}
	return false
}
