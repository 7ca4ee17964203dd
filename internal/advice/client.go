package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/summit/internal/metrics"
)

var ErrDisabled = errors.New("advice service not configured")

// Client calls a Gemini style generateContent endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

// Advise returns generated advice, or the fallback message when the service
// is not configured or fails in any way. It never returns an error so
// callers can always show something.
func (c *Client) Advise(ctx context.Context, s Snapshot) Message {
	msg, err := c.Generate(ctx, s)
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			slog.Warn("failed to generate advice", "error", err)
		}

		metrics.AdviceRequests.WithLabelValues("fallback").Inc()

		return Fallback()
	}

	metrics.AdviceRequests.WithLabelValues("generated").Inc()

	return msg
}

// Generate performs a single request to the advice service.
func (c *Client) Generate(ctx context.Context, s Snapshot) (Message, error) {
	if c.apiKey == "" {
		return Message{}, ErrDisabled
	}

	body, err := json.Marshal(newRequest(buildPrompt(s)))
	if err != nil {
		return Message{}, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Message{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Message{}, fmt.Errorf("decoding response: %w", err)
	}

	text, err := out.text()
	if err != nil {
		return Message{}, err
	}

	// Models sometimes send the score as a fraction.
	var raw struct {
		Message
		HealthScore float64 `json:"healthScore"`
	}

	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Message{}, fmt.Errorf("decoding advice: %w", err)
	}

	msg := raw.Message
	if msg.PepTalk == "" || msg.NextMilestone == "" {
		return Message{}, errors.New("advice is missing required fields")
	}

	msg.HealthScore = clampScore(int(math.Round(raw.HealthScore)))
	msg.Generated = true

	return msg, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type schemaProperty struct {
	Type string `json:"type"`
}

type schema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
	ResponseSchema   schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

func newRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: schema{
				Type: "OBJECT",
				Properties: map[string]schemaProperty{
					"pepTalk":       {Type: "STRING"},
					"nextMilestone": {Type: "STRING"},
					"financialTip":  {Type: "STRING"},
					"budgetAdvice":  {Type: "STRING"},
					"healthScore":   {Type: "INTEGER"},
				},
				Required: []string{"pepTalk", "nextMilestone", "financialTip", "budgetAdvice", "healthScore"},
			},
		},
	}
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() (string, error) {
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				return t, nil
			}
		}
	}

	return "", errors.New("response has no text")
}
