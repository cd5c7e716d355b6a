package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"reviewalyze/internal/config"
	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// Client talks to an external text-classification service. One verdict per
// call; callers own the failure policy.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client from configuration.
func NewClient(cfg config.InferenceConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs and health reports.
func (c *Client) Name() string {
	return "inference"
}

// Classify posts the text and decodes the service's label+score verdict.
func (c *Client) Classify(ctx context.Context, text string) (domain.Prediction, error) {
	if c.http == nil || c.endpoint == "" {
		return domain.Prediction{}, fmt.Errorf("inference client misconfigured")
	}

	payload := map[string]any{
		"model": c.model,
		"text":  text,
	}

	var resp struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := c.post(ctx, "/classify", payload, &resp); err != nil {
		return domain.Prediction{}, err
	}

	return domain.Prediction{Label: resp.Label, Confidence: resp.Score}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
