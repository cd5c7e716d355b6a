package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reviewalyze/internal/config"
	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// GeminiClient writes a short natural-language digest of a finished report
// via the Gemini generateContent API.
type GeminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.ReportSummarizer = (*GeminiClient)(nil)

// NewGeminiClient builds a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Summarize posts the summary table and returns the generated digest text.
func (c *GeminiClient) Summarize(ctx context.Context, report domain.Report) (string, error) {
	if c == nil {
		return "", fmt.Errorf("gemini client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("gemini client misconfigured")
	}

	table, err := json.Marshal(report.Summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	prompt := fmt.Sprintf(
		"Summarize the user sentiment for app %q in 3-4 sentences based on these per-keyword statistics:\n%s",
		report.AppName, table)

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	requestURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.endpoint, "/"), c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request digest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}
