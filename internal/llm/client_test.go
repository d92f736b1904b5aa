package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestClient(serverURL string) *Client {
	c := NewClient(Config{
		Endpoint:    serverURL,
		APIKey:      "test-key",
		Deployment:  "gpt-4",
		APIVersion:  "2024-02-15-preview",
		Model:       "gpt-4",
		Temperature: 0.3,
		MaxTokens:   2000,
		Timeout:     5 * time.Second,
	})
	c.retry = testRetryConfig
	return c
}

func chatReply(t *testing.T, w http.ResponseWriter, content string, tokens int64) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
		"usage": map[string]any{"total_tokens": tokens},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		chatReply(t, w, validPayload, 1234)
	}))
	defer server.Close()

	requirements := "5+ years of Go"
	outcome := newTestClient(server.URL).Analyze(t.Context(), AnalyzeRequest{
		ResumeText:      "Experienced Go developer.",
		JobTitle:        "Backend Engineer",
		JobDescription:  "Design and build APIs.",
		JobRequirements: &requirements,
	})

	require.NoError(t, outcome.Err)
	require.NotNil(t, outcome.Analysis)
	assert.Equal(t, 87.5, outcome.Analysis.RelevanceScore)
	assert.Equal(t, int64(1234), outcome.TokensUsed)
	assert.Equal(t, "gpt-4", outcome.Model)
	assert.Greater(t, outcome.Duration, time.Duration(0))

	assert.Equal(t, "/openai/deployments/gpt-4/chat/completions", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[1].Content, "Backend Engineer")
	assert.Contains(t, gotBody.Messages[1].Content, "REQUIREMENTS:\n5+ years of Go")
}

func TestAnalyzeRetriesTransientFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		chatReply(t, w, validPayload, 100)
	}))
	defer server.Close()

	outcome := newTestClient(server.URL).Analyze(t.Context(), AnalyzeRequest{
		ResumeText:     "resume",
		JobTitle:       "title",
		JobDescription: "description",
	})

	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, calls)
}

func TestAnalyzeDoesNotRetrySchemaFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		chatReply(t, w, `{"relevance_score": 50}`, 100)
	}))
	defer server.Close()

	outcome := newTestClient(server.URL).Analyze(t.Context(), AnalyzeRequest{
		ResumeText:     "resume",
		JobTitle:       "title",
		JobDescription: "description",
	})

	var missingErr *MissingFieldsError
	require.ErrorAs(t, outcome.Err, &missingErr)
	assert.Nil(t, outcome.Analysis)
	assert.Equal(t, 1, calls)
}

func TestAnalyzeAuthFailureIsTerminal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	outcome := newTestClient(server.URL).Analyze(t.Context(), AnalyzeRequest{
		ResumeText:     "resume",
		JobTitle:       "title",
		JobDescription: "description",
	})

	require.Error(t, outcome.Err)
	assert.Equal(t, 1, calls)
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	outcome := newTestClient(server.URL).Analyze(t.Context(), AnalyzeRequest{
		ResumeText:     "resume",
		JobTitle:       "title",
		JobDescription: "description",
	})
	assert.ErrorContains(t, outcome.Err, "no response choices")
}
