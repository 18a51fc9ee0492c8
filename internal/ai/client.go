package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/romizzidiamly/vocabmaster/internal/config"
	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const maxErrorBody = 512

var codeFence = regexp.MustCompile("(?s)```(?:json)?")

// Enricher is anything that turns a word into enrichment content
type Enricher interface {
	Enrich(ctx context.Context, word string) (*models.Enrichment, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint (Groq by default)
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	http        *http.Client
	log         *logger.Logger
}

// New creates a client. A missing API key is reported per call as ErrMissingCredentials.
func New(cfg config.AIConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		apiKey:      cfg.APIKey,
		apiURL:      strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		http:        &http.Client{Timeout: cfg.Timeout},
		log:         log.With("component", "ai"),
	}
}

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is the chat completions request body
type ChatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

// ChatResponse is the subset of the chat completions response we read
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// enrichmentPayload mirrors the JSON object the prompt asks for
type enrichmentPayload struct {
	Meaning         string            `json:"meaning"`
	Definition      string            `json:"definition"`
	Phonetics       *models.Phonetics `json:"phonetics"`
	Examples        []models.Example  `json:"examples"`
	SynonymMeanings []string          `json:"synonymMeanings"`
}

// Enrich asks the model for the meaning, phonetics and example sentences of word
func (c *Client) Enrich(ctx context.Context, word string) (*models.Enrichment, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}

	content, err := c.complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(word)},
	})
	if err != nil {
		return nil, err
	}

	result, err := parseEnrichment(content)
	if err != nil {
		c.log.Warn("unparseable enrichment", "word", word, "content", truncate(content, maxErrorBody))
		return nil, err
	}
	return result, nil
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	request := ChatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// parseEnrichment pulls the JSON object out of the model's reply and normalizes it
func parseEnrichment(content string) (*models.Enrichment, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	result := &models.Enrichment{
		Definition:      strings.TrimSpace(payload.Definition),
		Meaning:         strings.TrimSpace(payload.Meaning),
		Phonetics:       payload.Phonetics,
		Examples:        models.NormalizeExamples(payload.Examples),
		SynonymMeanings: payload.SynonymMeanings,
	}
	if result.Meaning == "" && len(result.Examples) == 0 {
		return nil, fmt.Errorf("%w: no meaning or examples", ErrMalformedResponse)
	}
	return result, nil
}

// extractJSON finds the JSON object in a reply that may carry code fences or chatter
func extractJSON(s string) (string, error) {
	s = strings.TrimSpace(codeFence.ReplaceAllString(s, ""))

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	jsonStr := s[start : end+1]
	if !json.Valid([]byte(jsonStr)) {
		return "", fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return jsonStr, nil
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
