package sanitize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarmor/internal/armorclient"
	"goarmor/internal/core"
)

func newTestSanitizer(t *testing.T, handler http.HandlerFunc) *Sanitizer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := armorclient.NewWithHTTPClient(server.Client(), armorclient.Config{
		ServiceName: "modelarmor",
		BaseURL:     server.URL,
	}, nil)
	return New(client)
}

func TestSanitizePromptCallsVerbEndpoint(t *testing.T) {
	var gotPath string
	var gotBody core.SanitizeUserPromptRequest
	s := newTestSanitizer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(&core.SanitizeResponse{
			SanitizationResult: &core.SanitizationResult{
				FilterMatchState: core.NoMatchFound,
				InvocationResult: core.InvocationSuccess,
			},
		})
	})

	result, err := s.SanitizePrompt(context.Background(),
		"projects/p1/locations/us-central1/templates/tpl-a", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v1/projects/p1/locations/us-central1/templates/tpl-a:sanitizeUserPrompt", gotPath)
	assert.Equal(t, "hello", gotBody.UserPromptData.Text)
	assert.False(t, result.MatchFound())
}

func TestSanitizeResponseCallsVerbEndpoint(t *testing.T) {
	var gotPath string
	var gotBody core.SanitizeModelResponseRequest
	s := newTestSanitizer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(&core.SanitizeResponse{
			SanitizationResult: &core.SanitizationResult{
				FilterMatchState: core.MatchFound,
				InvocationResult: core.InvocationSuccess,
			},
		})
	})

	result, err := s.SanitizeResponse(context.Background(),
		"projects/p1/locations/us-central1/templates/tpl-a", "answer text")
	require.NoError(t, err)

	assert.Equal(t, "/v1/projects/p1/locations/us-central1/templates/tpl-a:sanitizeModelResponse", gotPath)
	assert.Equal(t, "answer text", gotBody.ModelResponseData.Text)
	assert.True(t, result.MatchFound())
}

func TestSanitizePropagatesNotFound(t *testing.T) {
	s := newTestSanitizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"template not found","status":"NOT_FOUND"}}`))
	})

	_, err := s.SanitizePrompt(context.Background(),
		"projects/p1/locations/us-central1/templates/missing", "hello")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err), "got %v", err)
}

func TestSanitizeRejectsMissingResult(t *testing.T) {
	s := newTestSanitizer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := s.SanitizePrompt(context.Background(),
		"projects/p1/locations/us-central1/templates/tpl-a", "hello")
	require.Error(t, err)
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.StatusInternal, apiErr.Status)
}
