// Package translate implements AI-powered translation of localization keys
// through interchangeable HTTP chat-completion backends (OpenAI, Groq, and
// local Ollama), with response sanitization, classified failures, caching,
// and automatic failover between registered providers.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Provider identifiers.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

// Provider is a pluggable network translation backend.
type Provider interface {
	// Translate returns text translated into the named target language.
	Translate(ctx context.Context, text, targetLang string) (string, error)
	// Available reports whether the provider holds the credential it needs.
	// It does not verify network reachability.
	Available() bool
	// Name returns the provider identifier (e.g. "openai").
	Name() string
	// Model returns the model identifier used for requests.
	Model() string
}

// systemPrompt constrains the backend to return the bare translation.
// {{targetLang}} is replaced with the target language's English name.
const systemPrompt = `You are a professional translator for mobile application UI strings. Translate the user's text from English to {{targetLang}}.

Return ONLY the bare translation:
- no surrounding quotes
- no explanations or notes
- no alternative translations
- keep placeholders like @name or %s unchanged`

// requestTimeout is the fixed per-request deadline.
const requestTimeout = 10 * time.Second

// rateLimitWait is how long to wait before the single retry after a 429.
const rateLimitWait = 5 * time.Second

// ---------------------------------------------------------------------------
// Chat-completion provider
// ---------------------------------------------------------------------------

// ChatProvider talks to an OpenAI-compatible chat-completions endpoint:
// HTTPS POST with a JSON {model, messages, temperature} body and
// bearer-token auth.
type ChatProvider struct {
	id         string
	baseURL    string
	apiKey     string
	model      string
	requireKey bool

	// timeout, rateWait, and maxRetries are tunable for tests; the
	// constructors install the production defaults.
	timeout    time.Duration
	rateWait   time.Duration
	maxRetries int

	client *http.Client
}

// NewOpenAI returns a provider backed by the OpenAI API.
// An empty model selects gpt-4o-mini.
func NewOpenAI(apiKey, model string) *ChatProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newChatProvider(ProviderOpenAI, "https://api.openai.com/v1", apiKey, model, true)
}

// NewGroq returns a provider backed by the Groq API.
// An empty model selects llama-3.3-70b-versatile.
func NewGroq(apiKey, model string) *ChatProvider {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return newChatProvider(ProviderGroq, "https://api.groq.com/openai/v1", apiKey, model, true)
}

// NewOllama returns a provider backed by a local Ollama server, which
// exposes the same chat-completions surface and needs no credential.
// Empty baseURL selects http://localhost:11434/v1; empty model llama3.2.
func NewOllama(baseURL, model string) *ChatProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	if model == "" {
		model = "llama3.2"
	}
	return newChatProvider(ProviderOllama, baseURL, "", model, false)
}

// NewChatProvider returns a provider for any OpenAI-compatible endpoint.
// Used for custom deployments and by tests.
func NewChatProvider(id, baseURL, apiKey, model string) *ChatProvider {
	return newChatProvider(id, baseURL, apiKey, model, true)
}

func newChatProvider(id, baseURL, apiKey, model string, requireKey bool) *ChatProvider {
	return &ChatProvider{
		id:         id,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		requireKey: requireKey,
		timeout:    requestTimeout,
		rateWait:   rateLimitWait,
		maxRetries: 2,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// Name returns the provider identifier.
func (p *ChatProvider) Name() string { return p.id }

// Model returns the configured model identifier.
func (p *ChatProvider) Model() string { return p.model }

// Available reports whether a credential is held (always true for
// providers that need none, like Ollama).
func (p *ChatProvider) Available() bool {
	return !p.requireKey || p.apiKey != ""
}

// chatRequest is the OpenAI-compatible request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse covers both the success and the error shape of the body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Translate sends the text to the backend and returns the sanitized
// translation. Retry policy: 429 waits and retries once; 5xx and
// connection failures retry with exponential backoff up to maxRetries;
// timeouts and auth failures are terminal.
func (p *ChatProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("%s: %w", p.id, ErrProviderNotAvailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: strings.ReplaceAll(systemPrompt, "{{targetLang}}", targetLang)},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	endpoint := p.baseURL + "/chat/completions"
	retried429 := false

	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if p.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+p.apiKey)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			if isTimeout(err) {
				return "", fmt.Errorf("%s: %w", p.id, ErrTimeout)
			}
			if attempt < p.maxRetries {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("%s: request failed: %w", p.id, err)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if !retried429 {
				retried429 = true
				if err := sleep(ctx, p.rateWait); err != nil {
					return "", err
				}
				continue
			}
			return "", apiError(p.id, resp.StatusCode, respBody)
		}

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 500 && attempt < p.maxRetries {
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", apiError(p.id, resp.StatusCode, respBody)
		}

		return p.extract(respBody)
	}
}

// extract pulls the translated text out of a 200 response body.
func (p *ChatProvider) extract(body []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%s: invalid JSON response: %w", p.id, err)
	}
	if parsed.Error != nil {
		return "", &APIError{
			Provider: p.id,
			Status:   http.StatusOK,
			Code:     codeString(parsed.Error.Code),
			Message:  parsed.Error.Message,
		}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: response contains no choices", p.id)
	}
	out := Sanitize(parsed.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%s: empty translation", p.id)
	}
	return out, nil
}

// apiError builds an *APIError from a failed response, picking up the
// provider error code from the body when one is present.
func apiError(provider string, status int, body []byte) *APIError {
	apiErr := &APIError{Provider: provider, Status: status, Message: truncate(string(body), 300)}
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		apiErr.Message = parsed.Error.Message
		apiErr.Code = codeString(parsed.Error.Code)
	}
	return apiErr
}

func codeString(code any) string {
	if code == nil {
		return ""
	}
	return fmt.Sprint(code)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ---------------------------------------------------------------------------
// Response sanitization
// ---------------------------------------------------------------------------

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:[a-z]*\\n)?(.*?)```")

// Sanitize normalizes raw model output into a bare translation: markdown
// fences and surrounding quotes are stripped, only the first line is kept,
// and a trailing explanatory clause after sentence-level punctuation is
// discarded.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)

	if m := markdownCodeBlock.FindStringSubmatch(s); len(m) > 1 {
		s = strings.TrimSpace(m[1])
	}

	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	s = trimQuotes(s)

	if idx := strings.IndexAny(s, ".,;:"); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// quotePairs lists the surrounding quote characters models like to add.
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"«", "»"},
	{"“", "”"},
	{"„", "“"},
	{"「", "」"},
}

func trimQuotes(s string) string {
	for _, pair := range quotePairs {
		if len(s) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
