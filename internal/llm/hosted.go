package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitch9727/mksap-statement-gen/internal/llm/httpretry"
)

// HostedProvider calls a hosted chat-completions-style API over HTTPS with
// bearer auth, grounded on the teacher's pkg/llms/openai.go request shape
// (a minimal, provider-agnostic subset: messages in, text out) and its
// createHTTPClient wiring of retry/backoff via the httpclient package.
type HostedProvider struct {
	name       string
	baseURL    string
	model      string
	apiKey     string
	httpClient *httpretry.Client
}

// NewHostedProvider builds a hosted-API provider. baseURL defaults to a
// generic OpenAI-compatible "/chat/completions" endpoint shape.
func NewHostedProvider(name, baseURL, model, apiKey string, maxRetries int, timeout time.Duration) *HostedProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &HostedProvider{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: httpretry.New(
			httpretry.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpretry.WithMaxRetries(maxRetries),
			httpretry.WithHeaderParser(httpretry.ParseOpenAIRateLimitHeaders),
		),
	}
}

func (p *HostedProvider) Name() string { return p.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate issues one chat-completion request and returns the assistant
// text.
func (p *HostedProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if p.apiKey == "" {
		return "", &ProviderAuthError{Provider: p.name, Cause: fmt.Errorf("missing API key")}
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &ProviderTransientError{Provider: p.name, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderTransientError{Provider: p.name, Cause: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &ProviderAuthError{Provider: p.name, Cause: fmt.Errorf("http %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return "", &ProviderTransientError{Provider: p.name, Cause: fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(raw), 200))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != nil {
		return "", &ProviderTransientError{Provider: p.name, Cause: fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider %s: empty choices", p.name)
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
