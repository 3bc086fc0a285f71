package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/evergarden-code/vova/pkg/prompts"
	"github.com/evergarden-code/vova/pkg/session"
	"github.com/evergarden-code/vova/pkg/story"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// CreateSessionRequest matches the API request structure.
type CreateSessionRequest struct {
	Material story.Material `json:"material"`
}

func createSession(client *http.Client, baseURL string, topic string) (*session.Session, error) {
	req := CreateSessionRequest{
		Material: story.Material{Type: story.MaterialText, Data: topic},
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/session",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var s session.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	s.Attach(slog.Default())
	return &s, nil
}

func saveSession(client *http.Client, baseURL string, s *session.Session) error {
	jsonData, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/v1/session/%s", baseURL, s.ID),
		bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("failed to save session: %s", errorResp.Error)
	}
	return nil
}

func deleteSession(client *http.Client, baseURL string, id uuid.UUID) error {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/v1/session/%s", baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}

// generateStory runs one oracle turn through the relay: builds the full
// payload from the turn context, posts it, and parses the structured
// response.
func generateStory(client *http.Client, baseURL string, tc story.TurnContext) (*story.StoryData, error) {
	payload := prompts.BuildRequest(tc)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/api/generate-story",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		if errorResp.Details != "" {
			return nil, fmt.Errorf("story request failed: %s (%s)", errorResp.Error, errorResp.Details)
		}
		return nil, fmt.Errorf("story request failed: %s", errorResp.Error)
	}

	sd, err := prompts.ParseStoryData(body)
	if err != nil {
		return nil, err
	}
	if err := sd.Validate(); err != nil {
		return nil, fmt.Errorf("oracle returned invalid story data: %w", err)
	}
	return sd, nil
}
