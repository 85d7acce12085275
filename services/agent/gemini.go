package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ideaforge/dashboard/config"
	"github.com/ideaforge/dashboard/services"
)

// Turn is one prior exchange in a chat conversation.
type Turn struct {
	Role    string // "user" or "model"
	Content string
}

// Generator produces model completions. The Gemini client implements it;
// tests substitute a canned generator.
type Generator interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat produces a completion for a message given prior conversation turns.
	Chat(ctx context.Context, history []Turn, message string) (string, error)
}

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini API client from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &GeminiClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Generate produces a completion for a single prompt.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generateContent(ctx, []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: prompt}}},
	})
}

// Chat produces a completion for a message given prior conversation turns.
func (c *GeminiClient) Chat(ctx context.Context, history []Turn, message string) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Role:  turn.Role,
			Parts: []geminiPart{{Text: turn.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})
	return c.generateContent(ctx, contents)
}

func (c *GeminiClient) generateContent(ctx context.Context, contents []geminiContent) (string, error) {
	reqBody, err := json.Marshal(geminiRequest{Contents: contents})
	if err != nil {
		return "", services.WrapInternal("failed to marshal model request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	// Retry transient failures with linear backoff
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second * time.Duration(attempt)):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(reqBody)))
		if err != nil {
			return "", services.WrapInternal("failed to create model request", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.httpClient.Do(httpReq)
		if lastErr == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		// Keep the last attempt's body open so the error payload survives
		if resp != nil && attempt < c.cfg.MaxRetries {
			resp.Body.Close()
		}
	}

	if lastErr != nil {
		return "", services.WrapExternal("model request failed", lastErr)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.WrapExternal("failed to read model response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", services.WrapExternal("failed to unmarshal model response", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", services.NewDomainError(services.ErrorTypeExternal, "model returned no candidates", nil)
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func (c *GeminiClient) handleErrorResponse(statusCode int, body []byte) error {
	var errResp geminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return services.NewDomainError(services.ErrorTypeExternal, string(body), nil).
			WithDetail("status_code", statusCode)
	}
	return services.NewDomainError(services.ErrorTypeExternal, errResp.Error.Message, nil).
		WithDetail("status_code", statusCode).
		WithDetail("status", errResp.Error.Status)
}

// Gemini API request/response types

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiErrorResponse struct {
	Error geminiError `json:"error"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
