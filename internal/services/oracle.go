package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// GenerateStoryRequest is the relay payload: a Gemini-shaped request
// built by the front end. The relay forwards it as-is, adding only the
// credential and the structured-output guarantee.
type GenerateStoryRequest struct {
	Contents          json.RawMessage        `json:"contents"`
	SystemInstruction json.RawMessage        `json:"systemInstruction"`
	GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
}

// Validate checks the fields the upstream API cannot work without.
func (r *GenerateStoryRequest) Validate() error {
	if len(r.Contents) == 0 {
		return fmt.Errorf("missing required field: contents")
	}
	if len(r.SystemInstruction) == 0 {
		return fmt.Errorf("missing required field: systemInstruction")
	}
	return nil
}

// UpstreamError is a non-success answer from the narrative oracle,
// carrying the upstream status so the relay can forward it.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Detail)
}

// Oracle produces the next story segment for a turn. Implementations
// must force a structured-output mode: the response body is required to
// be parseable narrative data, never free text.
type Oracle interface {
	GenerateStory(ctx context.Context, req *GenerateStoryRequest) (json.RawMessage, error)
}
