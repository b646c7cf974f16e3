// Package advisor talks to a chat-completions API to obtain a recommended
// semantic-version bump and draft release notes for a set of commits.
//
// The boundary is validation-first: the response must carry a recognized
// bump, a non-empty reasoning, and a non-empty notes list. Nothing is
// defaulted on a partial response, since a silently wrong bump could
// mis-version a release. Requests are never retried.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/relcut/relcut/internal/git"
	"github.com/relcut/relcut/internal/prompt"
	"github.com/relcut/relcut/internal/semver"
)

// Advice is the validated advisor recommendation.
type Advice struct {
	Bump      semver.Kind
	Reasoning string
	Notes     []string
}

// Client is a minimal HTTP client for a chat-completions API.
type Client struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// NewClient constructs a client. The request carries no timeout of its own;
// the round trip blocks the run until the advisor answers or the caller's
// context is canceled.
func NewClient(apiKey, baseURL, model string, maxTokens int, temperature float64) *Client {
	return &Client{
		APIKey:      apiKey,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		HTTPClient:  http.DefaultClient,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// wireAdvice is the JSON object the model is instructed to return.
type wireAdvice struct {
	Bump      string   `json:"bump"`
	Reasoning string   `json:"reasoning"`
	Notes     []string `json:"notes"`
}

// Suggest sends the commit history to the advisor and returns validated
// advice. Any transport, decoding, or validation failure is fatal to the
// run; the caller decides how to surface it.
func (c *Client) Suggest(ctx context.Context, commits []git.CommitRecord) (*Advice, error) {
	userPrompt, err := prompt.Render(commits)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.SystemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling advisor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("advisor responded with status %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding advisor response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("advisor returned no choices")
	}

	return parseAdvice(parsed.Choices[0].Message.Content)
}

// parseAdvice decodes and validates the completion content. All three
// fields are required; absence of any is an error, never a default.
func parseAdvice(content string) (*Advice, error) {
	var wire wireAdvice
	if err := json.Unmarshal([]byte(stripFences(content)), &wire); err != nil {
		return nil, fmt.Errorf("advisor content is not a JSON object: %w", err)
	}

	bump, ok := semver.ParseKind(wire.Bump)
	if !ok {
		return nil, fmt.Errorf("advisor response has no recognized bump (got %q)", wire.Bump)
	}
	if strings.TrimSpace(wire.Reasoning) == "" {
		return nil, errors.New("advisor response is missing reasoning")
	}
	if len(wire.Notes) == 0 {
		return nil, errors.New("advisor response is missing notes")
	}
	for i, note := range wire.Notes {
		if strings.TrimSpace(note) == "" {
			return nil, fmt.Errorf("advisor response note %d is empty", i)
		}
	}

	return &Advice{Bump: bump, Reasoning: wire.Reasoning, Notes: wire.Notes}, nil
}

// stripFences removes one pair of markdown code fences around the content.
// Models occasionally wrap the requested JSON object in ```json fences.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:] // drop opening fence, with or without a language tag
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
