package classify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/models"
)

func remoteTestConfig(baseURL string) config.ClassifierConfig {
	return config.ClassifierConfig{
		Provider:       "openai",
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 5,
	}
}

// completionResponse wraps content in the chat/completions envelope.
func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestRemoteClassifier_classifies(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse(`{"category":"legal","confidence":0.82}`))
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	got, err := c.Classify(context.Background(), Request{
		Text: "This agreement binds both parties",
		Name: "agreement.pdf",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != models.CategoryLegal {
		t.Errorf("category = %q, want %q", got.Category, models.CategoryLegal)
	}
	if got.Confidence != 0.82 {
		t.Errorf("confidence = %v, want 0.82", got.Confidence)
	}
	if got.Words != 5 {
		t.Errorf("words = %d, want 5", got.Words)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	body := string(gotBody)
	if !strings.Contains(body, `"model":"gpt-4o-mini"`) {
		t.Errorf("request body missing model: %s", body)
	}
	if !strings.Contains(body, "Filename: agreement.pdf") {
		t.Errorf("request body missing filename hint: %s", body)
	}
	if !strings.Contains(body, "json_object") {
		t.Errorf("request body missing response_format: %s", body)
	}
}

func TestRemoteClassifier_emptyTextSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty text")
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	got, err := c.Classify(context.Background(), Request{Text: "   "})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != models.CategoryGeneral || got.Confidence != 0 {
		t.Errorf("got %+v, want general with confidence 0", got)
	}
}

func TestRemoteClassifier_httpErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	_, err := c.Classify(context.Background(), Request{Text: "some words"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := models.KindOf(err); kind != models.ErrorKindClassification {
		t.Errorf("error kind = %q, want %q", kind, models.ErrorKindClassification)
	}
}

func TestRemoteClassifier_transportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	_, err := c.Classify(context.Background(), Request{Text: "some words"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := models.KindOf(err); kind != models.ErrorKindClassification {
		t.Errorf("error kind = %q, want %q", kind, models.ErrorKindClassification)
	}
}

func TestRemoteClassifier_categoryOutsideEnumRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"category":"horoscope"}`))
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	_, err := c.Classify(context.Background(), Request{Text: "some words"})
	if err == nil {
		t.Fatal("expected schema validation error")
	}
	if kind := models.KindOf(err); kind != models.ErrorKindClassification {
		t.Errorf("error kind = %q, want %q", kind, models.ErrorKindClassification)
	}
}

func TestRemoteClassifier_extraFieldsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"category":"legal","reasoning":"because"}`))
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	if _, err := c.Classify(context.Background(), Request{Text: "some words"}); err == nil {
		t.Fatal("expected schema validation error for additional properties")
	}
}

func TestRemoteClassifier_noChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	if _, err := c.Classify(context.Background(), Request{Text: "some words"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestRemoteClassifier_missingConfidenceDefaultsToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"category":"technical"}`))
	}))
	defer srv.Close()

	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	got, err := c.Classify(context.Background(), Request{Text: "api reference"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != models.CategoryTechnical || got.Confidence != 0 {
		t.Errorf("got %+v, want technical with confidence 0", got)
	}
}

func TestRemoteClassifier_canceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse(`{"category":"general"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewRemoteClassifier(remoteTestConfig(srv.URL), nil)
	if _, err := c.Classify(ctx, Request{Text: "some words"}); err == nil {
		t.Fatal("expected context error")
	}
}
