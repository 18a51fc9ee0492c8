package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romizzidiamly/vocabmaster/internal/config"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const sampleContent = `{
  "meaning": "bahagia",
  "phonetics": {"us": "/ˈhæp.i/", "uk": "/ˈhæp.i/"},
  "examples": [
    {"type": "Compound-Complex", "text": "Although it rained, we were happy, and we stayed.", "translation": "Meskipun hujan, kami senang, dan kami tinggal."},
    {"type": "Simple", "text": "She is happy.", "translation": "Dia bahagia."},
    {"type": "Complex", "text": "I am happy because you came.", "translation": "Saya senang karena kamu datang."},
    {"type": "Compound", "text": "He smiled, and she was happy.", "translation": "Dia tersenyum, dan dia senang."}
  ]
}`

func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.AIConfig{
		BaseURL:     srv.URL + "/",
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}, nil)
}

func TestClient_Enrich(t *testing.T) {
	var got ChatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply(sampleContent)))
	})

	result, err := client.Enrich(context.Background(), "  happy ")
	require.NoError(t, err)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, `"happy"`)

	assert.Equal(t, "bahagia", result.Meaning)
	assert.Equal(t, "/ˈhæp.i/", result.Phonetics.US)
	require.Len(t, result.Examples, 4)
	for i, typ := range models.ExampleTypes {
		assert.Equal(t, typ, result.Examples[i].Type)
	}
}

func TestClient_EnrichErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		body   string
		wantIs error
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "3"},
			wantIs: ErrRateLimited,
			check: func(t *testing.T, err error) {
				var rl *RateLimitError
				require.ErrorAs(t, err, &rl)
				assert.Equal(t, 3*time.Second, rl.RetryAfter)
			},
		},
		{
			name:   "upstream failure",
			status: http.StatusBadGateway,
			body:   "bad gateway",
			check: func(t *testing.T, err error) {
				var up *UpstreamError
				require.ErrorAs(t, err, &up)
				assert.Equal(t, http.StatusBadGateway, up.StatusCode)
				assert.Equal(t, "bad gateway", up.Body)
			},
		},
		{name: "not json", status: http.StatusOK, body: chatReply("Sorry, I cannot help."), wantIs: ErrMalformedResponse},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantIs: ErrMalformedResponse},
		{name: "empty object", status: http.StatusOK, body: chatReply(`{}`), wantIs: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Enrich(context.Background(), "happy")
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClient_MissingCredentials(t *testing.T) {
	client := New(config.AIConfig{BaseURL: "http://127.0.0.1:1"}, nil)

	_, err := client.Enrich(context.Background(), "happy")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = client.Enrich(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestParseEnrichment(t *testing.T) {
	t.Run("code fenced with chatter", func(t *testing.T) {
		content := "Here you go:\n```json\n{\"meaning\": \"sedih\", \"phonetics\": \"/sæd/\", \"examples\": [{\"type\": \"simple\", \"text\": \"I am sad.\"}, {\"type\": \"poem\", \"text\": \"x\"}]}\n```"
		result, err := parseEnrichment(content)
		require.NoError(t, err)
		assert.Equal(t, "sedih", result.Meaning)
		assert.Equal(t, &models.Phonetics{US: "/sæd/", UK: "/sæd/"}, result.Phonetics)
		assert.Equal(t, []models.Example{{Type: models.ExampleSimple, Text: "I am sad."}}, result.Examples)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := parseEnrichment(`{"meaning": "x"`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "missing_credentials", Kind(ErrMissingCredentials))
	assert.Equal(t, "rate_limited", Kind(&RateLimitError{}))
	assert.Equal(t, "upstream", Kind(&UpstreamError{StatusCode: 500}))
	assert.Equal(t, "malformed", Kind(ErrMalformedResponse))
	assert.Equal(t, "canceled", Kind(context.Canceled))
	assert.Equal(t, "transport", Kind(errors.New("connection reset")))
}
