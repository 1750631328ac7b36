package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Endpoint paths on the analysis service.
const (
	PathTranslate         = "/api2/translate"
	PathPOS               = "/api2/pos"
	PathTranslateKeywords = "/api2/translate_keywords"
	PathTranslateMultiple = "/api2/translate_multiple"
	PathProcessAudio      = "/api1/process_audio"
	PathProcessText       = "/api1/process_text"
)

// RequestIDHeader carries the per-request id for correlating logs.
const RequestIDHeader = "X-Request-ID"

// HTTPClient talks JSON and multipart to the analysis service.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

// NewHTTPClient creates a client for the service at baseURL. A nil hc uses
// a client without its own timeout; callers bound calls with a context.
func NewHTTPClient(baseURL string, hc *http.Client, logger *zap.SugaredLogger) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// Name returns the backend name
func (c *HTTPClient) Name() string {
	return "http"
}

// Translate implements Client.
func (c *HTTPClient) Translate(ctx context.Context, text string) (string, error) {
	var out TranslationResult
	if err := c.postJSON(ctx, OpTranslate, PathTranslate, Document{Text: text}, &out); err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}

// POS implements Client.
func (c *HTTPClient) POS(ctx context.Context, text string) ([]POSTag, error) {
	var out []POSTag
	if err := c.postJSON(ctx, OpPOS, PathPOS, Document{Text: text}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TranslateKeywords implements Client.
func (c *HTTPClient) TranslateKeywords(ctx context.Context, text string) ([]Keyword, error) {
	var out KeywordsResult
	if err := c.postJSON(ctx, OpTranslateKeywords, PathTranslateKeywords, Document{Text: text}, &out); err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

// TranslateMultiple implements Client.
func (c *HTTPClient) TranslateMultiple(ctx context.Context, text1, text2, direction string) (MultiTranslationResult, error) {
	req := MultiTranslationRequest{Text1: text1, Text2: text2, Direction: direction}
	var out MultiTranslationResult
	if err := c.postJSON(ctx, OpTranslateMultiple, PathTranslateMultiple, req, &out); err != nil {
		return MultiTranslationResult{}, err
	}
	return out, nil
}

// ProcessText implements Client.
func (c *HTTPClient) ProcessText(ctx context.Context, text string) (TextAnalysis, error) {
	var out TextAnalysis
	if err := c.postJSON(ctx, OpProcessText, PathProcessText, Document{Text: text}, &out); err != nil {
		return TextAnalysis{}, err
	}
	return out, nil
}

// ProcessAudio uploads the job as multipart field "file".
func (c *HTTPClient) ProcessAudio(ctx context.Context, job AudioJob) (TranscriptResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", job.Name)
	if err != nil {
		return TranscriptResult{}, fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(job.Data); err != nil {
		return TranscriptResult{}, fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return TranscriptResult{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathProcessAudio, &body)
	if err != nil {
		return TranscriptResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out TranscriptResult
	if err := c.do(OpProcessAudio, req, &out); err != nil {
		return TranscriptResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, op, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *HTTPClient) do(op string, req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warnw("request failed", "op", op, "request_id", requestID, "error", err)
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("response received",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from a failure body, falling
// back to the first bytes of the raw body.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
