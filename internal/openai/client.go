package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"healthassistant/internal/generation"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client calls the chat completions endpoint. It makes exactly one request
// per Generate call; retries are the caller's job.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentItem `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}, nil
}

// Generate sends the system prompt with the contract schema and the user
// prompt, and returns the raw message content. The request runs under ctx;
// an expired deadline surfaces as generation.ErrGenerationTimeout.
func (c *Client) Generate(ctx context.Context, req generation.GenerateRequest) (string, error) {
	systemPrompt := req.SystemPrompt
	if req.Schema != "" {
		systemPrompt += "\n\n### Output Format:\nReturn only one JSON object with this structure:\n" + req.Schema
	}

	body := ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: []ContentItem{{Type: "text", Text: systemPrompt}}},
			{Role: "user", Content: []ContentItem{{Type: "text", Text: req.UserPrompt}}},
		},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))

	response, err := c.httpClient.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		var errorResponse struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(response.Body).Decode(&errorResponse); err != nil {
			return "", fmt.Errorf("OpenAI API returned non-200 status code: %d", response.StatusCode)
		}
		return "", fmt.Errorf("OpenAI API error: %s", errorResponse.Error.Message)
	}

	var result ChatCompletionResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	log.Printf("OpenAI completion: model=%s prompt_tokens=%d completion_tokens=%d", c.cfg.Model, result.Usage.PromptTokens, result.Usage.CompletionTokens)
	return result.Choices[0].Message.Content, nil
}
