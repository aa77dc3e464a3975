package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/pkg/utils"
)

// maxPromptChars bounds how much document text is sent to the model.
const maxPromptChars = 3000

// RemoteClassifier asks an OpenAI-compatible chat/completions endpoint to
// pick a category. The response is constrained to the fixed category enum
// by a JSON schema and validated against that same schema before use.
type RemoteClassifier struct {
	cfg    config.ClassifierConfig
	client *http.Client
	schema map[string]any
	logger *zap.Logger
}

// NewRemoteClassifier returns a RemoteClassifier for the given endpoint
// configuration.
func NewRemoteClassifier(cfg config.ClassifierConfig, logger *zap.Logger) *RemoteClassifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		schema: BuildClassificationSchema(models.CategoryStrings()),
		logger: logger,
	}
}

// Name returns the classifier name.
func (*RemoteClassifier) Name() string { return "openai" }

// Classify sends the document text to the configured endpoint. Requests
// with no text words short-circuit to "general" without a network call.
// Transport, status, and response-shape failures all come back as
// classification errors.
func (c *RemoteClassifier) Classify(ctx context.Context, req Request) (Result, error) {
	words := len(strings.Fields(req.Text))
	if words == 0 {
		return Result{Category: models.CategoryGeneral}, nil
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": c.systemPrompt()},
			{"role": "user", "content": userPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(c.schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return Result{}, models.NewClassificationError("remote classification request", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return Result{}, models.NewClassificationError("decode completion response", err)
	}
	if len(cc.Choices) == 0 {
		return Result{}, models.NewClassificationError("completion response has no choices", nil)
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := validateJSONAgainstSchema(c.schema, content); err != nil {
		return Result{}, models.NewClassificationError("completion failed schema validation", err)
	}
	var out struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(content, &out); err != nil {
		return Result{}, models.NewClassificationError("unmarshal classification", err)
	}
	category, ok := models.ParseCategory(out.Category)
	if !ok {
		return Result{}, models.NewClassificationError(fmt.Sprintf("unknown category %q in response", out.Category), nil)
	}

	if c.logger != nil {
		c.logger.Debug("remote classification",
			zap.String("category", category.String()),
			zap.Float64("confidence", out.Confidence),
			zap.Int("words", words))
	}
	return Result{
		Category:   category,
		Confidence: utils.Clamp01(out.Confidence),
		Words:      words,
	}, nil
}

func (c *RemoteClassifier) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn("close response body", zap.Error(cerr))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func (c *RemoteClassifier) systemPrompt() string {
	return "You are a document classifier. Return ONLY JSON that matches the JSON Schema provided. " +
		"Pick the single category that best describes the document from: " +
		strings.Join(models.CategoryStrings(), ", ") + ". " +
		"Include a confidence between 0 and 1. Never output null; omit confidence if unsure."
}

func userPrompt(req Request) string {
	var b strings.Builder
	if req.Name != "" {
		b.WriteString("Filename: ")
		b.WriteString(req.Name)
		b.WriteString("\n\n")
	}
	b.WriteString("Document text (truncated):\n")
	b.WriteString(utils.TruncateRunes(req.Text, maxPromptChars))
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
