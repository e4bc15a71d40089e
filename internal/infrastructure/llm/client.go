package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mitra/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Completion request parameters fixed by the extraction contract
const (
	requestTemperature = 0.1
	requestMaxTokens   = 800
)

// Client handles communication with an OpenAI-compatible chat-completions
// API (Groq). One request per Complete call; retries are deliberately absent
// because every caller has a local fallback path.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new chat-completions client
func NewClient(apiKey, baseURL, model string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the completion
// text. Any failure (transport, status, empty choices) is reported as a
// single error; the caller decides whether to fall back.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	// Wait for rate limiter; a cancelled or expired context aborts here
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "Mitra/1.0")

	if c.debug {
		log.Printf("[LLM] POST %s model=%s promptLen=%d", endpoint, c.model, len(userPrompt))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrLLMFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			log.Printf("[LLM] API error - Status: %d, Body: %s", resp.StatusCode, string(respBody))
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrLLMFailure, resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrLLMFailure)
	}

	return completion.Choices[0].Message.Content, nil
}
