package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestOpenAIGenerator_GenerateJSON(t *testing.T) {
	var captured capturedRequest
	srv := completionServer(t, http.StatusOK, completionBody(validPayload), &captured)

	g := NewOpenAIGenerator("gsk_test", srv.URL, "llama-3.3-70b-versatile", 2, 5*time.Second)
	raw, err := g.GenerateJSON(context.Background(), "build a pack")
	require.NoError(t, err)

	content, err := ValidateGenerated(raw)
	require.NoError(t, err)
	assert.Len(t, content.Quizzes, 1)

	assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "build a pack", captured.Messages[0].Content)
}

func TestOpenAIGenerator_GenerateTextOmitsResponseFormat(t *testing.T) {
	var captured capturedRequest
	srv := completionServer(t, http.StatusOK, completionBody("It means energy spreads out."), &captured)

	g := NewOpenAIGenerator("gsk_test", srv.URL, "llama-3.3-70b-versatile", 1, 5*time.Second)
	text, err := g.GenerateText(context.Background(), "explain entropy")
	require.NoError(t, err)
	assert.Equal(t, "It means energy spreads out.", text)
	assert.Nil(t, captured.ResponseFormat)
}

func TestOpenAIGenerator_GenerateTextReturnsContentVerbatim(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completionBody("\n  Entropy measures disorder.\n\n"), nil)

	g := NewOpenAIGenerator("gsk_test", srv.URL, "llama-3.3-70b-versatile", 1, 5*time.Second)
	text, err := g.GenerateText(context.Background(), "explain entropy")
	require.NoError(t, err)
	assert.Equal(t, "\n  Entropy measures disorder.\n\n", text)
}

func TestOpenAIGenerator_WhitespaceOnlyCompletion(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completionBody(" \n\t "), nil)

	g := NewOpenAIGenerator("gsk_test", srv.URL, "llama-3.3-70b-versatile", 1, 5*time.Second)
	_, err := g.GenerateText(context.Background(), "explain entropy")
	require.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, "AI provider returned an empty completion", ClientMessage(err, ""))
}

func TestOpenAIGenerator_ProviderFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			wantMessage: "AI provider rate limit reached, please try again later",
		},
		{
			name:        "bad credentials",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantMessage: "AI provider rejected the API credentials",
		},
		{
			name:        "no choices",
			status:      http.StatusOK,
			body:        `{"id":"x","object":"chat.completion","choices":[]}`,
			wantMessage: "AI provider returned no completion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, tt.status, tt.body, nil)
			g := NewOpenAIGenerator("gsk_test", srv.URL, "m", 1, 5*time.Second)

			_, err := g.GenerateJSON(context.Background(), "p")
			require.ErrorIs(t, err, ErrProvider)
			assert.Equal(t, tt.wantMessage, ClientMessage(err, ""))
		})
	}
}

func TestOpenAIGenerator_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	g := NewOpenAIGenerator("gsk_test", srv.URL, "m", 1, 50*time.Millisecond)
	_, err := g.GenerateJSON(context.Background(), "p")
	require.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, "AI generation timed out", ClientMessage(err, ""))
}

func TestRateSlots_AcquireRespectsContext(t *testing.T) {
	slots := newRateSlots(1)
	require.NoError(t, slots.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := slots.acquire(ctx)
	assert.ErrorIs(t, err, ErrProvider)

	slots.release()
	assert.NoError(t, slots.acquire(context.Background()))
}
