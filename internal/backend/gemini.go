package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient answers analysis operations with a Gemini model. Audio is
// sent inline and transcribed by the same model.
type GeminiClient struct {
	*modelBackend

	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.SugaredLogger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{client: client, model: model}
	c.modelBackend = &modelBackend{
		name:       "gemini",
		prompt:     c.generate,
		transcribe: c.transcribeAudio,
		logger:     logger,
	}
	return c, nil
}

func (c *GeminiClient) generate(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return text, nil
}

func (c *GeminiClient) transcribeAudio(ctx context.Context, job AudioJob) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText("Transcribe this audio verbatim. Respond with the transcript only."),
		genai.NewPartFromBytes(job.Data, job.MIMEType()),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
