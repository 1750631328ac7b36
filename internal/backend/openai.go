package backend

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient answers analysis operations with OpenAI chat completions and
// Whisper transcription.
type OpenAIClient struct {
	*modelBackend

	apiKey             string
	client             *openai.Client
	chatModel          string
	transcriptionModel string
}

// NewOpenAIClient creates an OpenAI-backed client.
func NewOpenAIClient(apiKey, chatModel, transcriptionModel string, logger *zap.SugaredLogger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI %w", ErrMissingAPIKey)
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	if transcriptionModel == "" {
		transcriptionModel = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := &OpenAIClient{
		apiKey:             apiKey,
		client:             openai.NewClient(apiKey),
		chatModel:          chatModel,
		transcriptionModel: transcriptionModel,
	}
	c.modelBackend = &modelBackend{
		name:       "openai",
		prompt:     c.chat,
		transcribe: c.transcribeAudio,
		logger:     logger,
	}
	return c, nil
}

func (c *OpenAIClient) chat(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) transcribeAudio(ctx context.Context, job AudioJob) (string, error) {
	req := openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: job.Name,
		Reader:   bytes.NewReader(job.Data),
		Format:   openai.AudioResponseFormatJSON,
	}

	resp, err := c.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
