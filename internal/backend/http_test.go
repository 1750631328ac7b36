package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/sentiment"
	"codeberg.org/snonux/lingoflow/internal/stubserver"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newStubClient(t *testing.T, config *stubserver.Config) *backend.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(stubserver.NewRouter(config))
	t.Cleanup(srv.Close)
	return backend.NewHTTPClient(srv.URL+"/", nil, nil)
}

func TestHTTPClientTranslate(t *testing.T) {
	c := newStubClient(t, nil)

	got, err := c.Translate(context.Background(), "Hello world.")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "హలో ప్రపంచం." {
		t.Errorf("Translate() = %q", got)
	}
	if c.Name() != "http" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestHTTPClientPOS(t *testing.T) {
	c := newStubClient(t, nil)

	tags, err := c.POS(context.Background(), "Hello world.")
	if err != nil {
		t.Fatalf("POS failed: %v", err)
	}
	if len(tags) != 3 || tags[0].Token != "హలో" || tags[2].POS != "PUNCT" {
		t.Errorf("unexpected tags: %v", tags)
	}
}

func TestHTTPClientTranslateKeywords(t *testing.T) {
	c := newStubClient(t, nil)

	keywords, err := c.TranslateKeywords(context.Background(), "hello hello world")
	if err != nil {
		t.Fatalf("TranslateKeywords failed: %v", err)
	}
	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %v", keywords)
	}
	if keywords[0].Keyword != "hello" || keywords[0].TranslatedKeyword != "హలో" {
		t.Errorf("unexpected first keyword: %+v", keywords[0])
	}
	if keywords[1].TranslatedKeyword != "[te] world" {
		t.Errorf("unexpected second keyword: %+v", keywords[1])
	}
}

func TestHTTPClientTranslateMultiple(t *testing.T) {
	c := newStubClient(t, nil)

	got, err := c.TranslateMultiple(context.Background(), "hello", "How are you?", "en-to-te")
	if err != nil {
		t.Fatalf("TranslateMultiple failed: %v", err)
	}
	want := backend.MultiTranslationResult{TranslatedText1: "హలో", TranslatedText2: "మీరు ఎలా ఉన్నారు?"}
	if got != want {
		t.Errorf("TranslateMultiple() = %+v, want %+v", got, want)
	}
}

func TestHTTPClientProcessAudio(t *testing.T) {
	c := newStubClient(t, nil)

	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("I am happy. Really."), 0644); err != nil {
		t.Fatal(err)
	}
	job, err := backend.LoadAudioJob(path)
	if err != nil {
		t.Fatalf("LoadAudioJob failed: %v", err)
	}
	if job.Name != "clip.mp3" {
		t.Errorf("job name = %q", job.Name)
	}

	res, err := c.ProcessAudio(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessAudio failed: %v", err)
	}
	if res.Transcript != "I am happy. Really." || res.Summary != "I am happy." {
		t.Errorf("unexpected result: %+v", res)
	}
	if v := sentiment.Normalize(res.Sentiments); v[0] != 1 {
		t.Errorf("joy = %v, want 1", v[0])
	}
	if !res.Translatable() {
		t.Error("result should be translatable")
	}
}

func TestHTTPClientProcessText(t *testing.T) {
	c := newStubClient(t, nil)

	res, err := c.ProcessText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("ProcessText failed: %v", err)
	}
	if res.TranslatedText != "హలో" || res.OverallSentiment != "neutral" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHTTPClientRemoteError(t *testing.T) {
	c := newStubClient(t, &stubserver.Config{
		Failures: map[string]int{backend.PathTranslate: http.StatusInternalServerError},
	})

	_, err := c.Translate(context.Background(), "hello")
	var remoteErr *backend.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.StatusCode != 500 || remoteErr.Message != "injected failure" || remoteErr.Op != backend.OpTranslate {
		t.Errorf("unexpected RemoteError: %+v", remoteErr)
	}
}

func TestHTTPClientValidationErrorFromServer(t *testing.T) {
	c := newStubClient(t, nil)

	_, err := c.TranslateMultiple(context.Background(), "hello", "", "en-to-te")
	var remoteErr *backend.RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 RemoteError, got %v", err)
	}
	if remoteErr.Message != "Both text1 and text2 must be provided" {
		t.Errorf("message = %q", remoteErr.Message)
	}
}

func TestHTTPClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, nil, nil)
	_, err := c.POS(context.Background(), "hello")
	var remoteErr *backend.RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.Message != "gateway exploded" {
		t.Errorf("expected RemoteError with raw body, got %v", err)
	}
}

func TestHTTPClientSendsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(backend.RequestIDHeader)
		w.Write([]byte(`{"translated_text":"ok"}`))
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, nil, nil)
	if _, err := c.Translate(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 36 {
		t.Errorf("expected a UUID request id, got %q", got)
	}
}

func TestHTTPClientContextDeadline(t *testing.T) {
	c := newStubClient(t, &stubserver.Config{ProcessingDelay: 2 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Translate(ctx, "hello")
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("call was not cut short by the context")
	}
}

func TestHTTPClientTransportError(t *testing.T) {
	c := backend.NewHTTPClient("http://127.0.0.1:1", nil, nil)
	if _, err := c.Translate(context.Background(), "hello"); err == nil {
		t.Error("expected transport error")
	}
}
