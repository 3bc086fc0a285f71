package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// jsonMIMEType is forced on every request so the oracle always
	// answers with structured narrative data.
	jsonMIMEType = "application/json"
)

// GeminiService implements Oracle against the Gemini generateContent
// API. The API key lives here, server-side, and nowhere else.
type GeminiService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiService creates a Gemini-backed oracle.
func NewGeminiService(apiKey, modelName string, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// GenerateStory forwards the request to Gemini and returns the raw
// response body. Non-success upstream answers become UpstreamError so
// the relay can pass the status through.
func (g *GeminiService) GenerateStory(ctx context.Context, req *GenerateStoryRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Guarantee JSON mode regardless of what the caller sent.
	cfg := req.GenerationConfig
	if cfg == nil {
		cfg = make(map[string]interface{})
	}
	cfg["responseMimeType"] = jsonMIMEType

	body, err := json.Marshal(GenerateStoryRequest{
		Contents:          req.Contents,
		SystemInstruction: req.SystemInstruction,
		GenerationConfig:  cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.modelName, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", jsonMIMEType)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Gemini API request failed",
			"status", resp.StatusCode,
			"model", g.modelName)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     string(respBody),
		}
	}

	return respBody, nil
}
