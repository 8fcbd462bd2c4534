// Package sanitize provides the Sanitizer facade: submit a user prompt or
// model response against a template and receive the service's structured
// verdict. Both operations are single blocking calls; there is no batching,
// no streaming, and no retrying. A clean scan returns a NO_MATCH_FOUND
// result, never an error.
package sanitize

import (
	"context"
	"net/http"

	"goarmor/internal/armorclient"
	"goarmor/internal/core"
)

// Sanitizer invokes the sanitization endpoints of a template.
type Sanitizer struct {
	client *armorclient.Client
}

// New creates a Sanitizer using the given transport.
func New(client *armorclient.Client) *Sanitizer {
	return &Sanitizer{client: client}
}

// SanitizePrompt evaluates a user prompt against the named template.
// Referencing a nonexistent template fails NOT_FOUND.
func (s *Sanitizer) SanitizePrompt(ctx context.Context, templateName, text string) (*core.SanitizationResult, error) {
	return s.call(ctx, templateName+":sanitizeUserPrompt", core.SanitizeUserPromptRequest{
		UserPromptData: core.DataItem{Text: text},
	})
}

// SanitizeResponse evaluates a model response against the named template.
func (s *Sanitizer) SanitizeResponse(ctx context.Context, templateName, text string) (*core.SanitizationResult, error) {
	return s.call(ctx, templateName+":sanitizeModelResponse", core.SanitizeModelResponseRequest{
		ModelResponseData: core.DataItem{Text: text},
	})
}

func (s *Sanitizer) call(ctx context.Context, path string, body interface{}) (*core.SanitizationResult, error) {
	var resp core.SanitizeResponse
	err := s.client.Do(ctx, armorclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/" + path,
		Body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.SanitizationResult == nil {
		return nil, core.NewAPIError("modelarmor", core.StatusInternal, "response missing sanitizationResult")
	}
	return resp.SanitizationResult, nil
}
