// Package anthropic provides a planner adapter using the Anthropic API.
//
// The model only ever proposes filters; every proposal still passes the
// compiler's schema validation, and any transport or parse failure
// surfaces as an error so compilation fails closed. Determinism for
// repeated queries comes from the plan cache, not from the model.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Planner implements the interface.
var _ driven.Planner = (*Planner)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultTimeout = 30 * time.Second
	DefaultRPM     = 20

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic planner.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-haiku-latest).
	Model string

	// Timeout bounds one proposal request (default: 30s).
	Timeout time.Duration

	// RequestsPerMinute rate-limits proposal calls (default: 20).
	RequestsPerMinute int
}

// Planner proposes filters by asking an Anthropic model to translate
// the query into the filter schema.
type Planner struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// systemPrompt constrains the model to the closed filter schema.
const systemPrompt = `You translate a natural-language query about historical bibliographic records into a JSON array of filters.

Allowed filters:
- {"field":"date","op":"between","start":YYYY,"end":YYYY}
- {"field":"language","op":"equals","value":"three-letter MARC code"}
- {"field":"place","op":"contains","value":"lowercase modern place name"}
- {"field":"publisher","op":"contains","value":"lowercase publisher name"}
- {"field":"title","op":"contains","value":"title words"}
- {"field":"subject","op":"contains","value":"subject words"}

Filters combine with AND. There is no OR and no NOT; if the query needs either, return [].
If the query names no usable constraint, return [].
Respond with the JSON array only, no prose.`

// NewPlanner creates an Anthropic-backed planner.
func NewPlanner(cfg Config) (*Planner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRPM
	}

	return &Planner{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Name identifies the planner in diagnostics.
func (p *Planner) Name() string {
	return "anthropic:" + p.model
}

// Propose asks the model for filters. Any failure is returned as an
// error; the caller never receives a partial guess.
func (p *Planner) Propose(ctx context.Context, queryText string) ([]domain.Filter, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("anthropic: rate limit wait: %w", err)
	}

	reqBody := messagesRequest{
		Model: p.model,
		Messages: []messagesMessage{
			{Role: "user", Content: queryText},
		},
		MaxTokens: 1024,
		System:    systemPrompt,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPlannerUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseFilters(text.String())
}

// parseFilters extracts the JSON array from the model output. Anything
// other than one well-formed array of known filters is an error.
func parseFilters(text string) ([]domain.Filter, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end < start {
		return nil, fmt.Errorf("anthropic: no JSON array in response %q", text)
	}

	var filters []domain.Filter
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&filters); err != nil {
		return nil, fmt.Errorf("anthropic: malformed filter array: %w", err)
	}
	return filters, nil
}
