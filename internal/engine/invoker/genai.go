package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"replydraft/internal/common/config"
	"replydraft/internal/common/errors"
)

// GenAIGenerator calls the configured generation API over HTTP. It performs a
// single attempt per call; retries and timeouts belong to the Invoker.
type GenAIGenerator struct {
	cfg    config.GenAIConfig
	client *http.Client
}

func NewGenAIGenerator(cfg config.GenAIConfig) *GenAIGenerator {
	return &GenAIGenerator{
		cfg: cfg,
		// No client-level timeout; the per-attempt context is the bound.
		client: &http.Client{},
	}
}

func (g *GenAIGenerator) GenerateReply(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  g.cfg.MaxTokens,
		"temperature": g.cfg.Temperature,
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		// Programmer error; retrying the same request cannot succeed.
		return "", errors.NewRequestBuildError(fmt.Errorf("marshal generation request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", errors.NewRequestBuildError(fmt.Errorf("build generation request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewUpstreamStatusError(resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", errors.NewUpstreamError(fmt.Errorf("decode response: %w", err))
	}

	return strings.TrimSpace(apiResponse.Text), nil
}
