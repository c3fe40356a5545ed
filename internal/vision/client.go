// Package vision extracts item drafts from photos through the OpenAI
// chat-completions API.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/config"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

const (
	defaultMimeType = "image/jpeg"
	maxResponseSize = 1 << 20
)

// Client calls the OpenAI vision endpoint. A client without an API key is
// valid to construct; analysis calls then fail with a NOT_CONFIGURED error
// so the rest of the API keeps working.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logg       *logger.Logger
}

// NewClient builds the vision client from configuration.
func NewClient(cfg config.OpenAIConfig, logg *logger.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if !cfg.Configured() && logg != nil {
		logg.Warn(context.Background(), "openai api key not set, image analysis disabled")
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logg:       logg,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeImage sends the image to the model and parses the drafts out of the
// reply. mimeType falls back to image/jpeg when empty.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType string) ([]items.Draft, error) {
	if !c.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "image analysis is not configured: set the OpenAI API key")
	}
	if len(image) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is empty")
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = defaultMimeType
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: analysisPrompt()},
				{Type: "image_url", ImageURL: &imageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image)),
					Detail: "high",
				}},
			},
		}},
		MaxTokens:   1000,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode analysis request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build analysis request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "image analysis request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read image analysis response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "status", resp.StatusCode), "openai returned a non-success status")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("image analysis failed with status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstreamInvalid, err, "decode image analysis response")
	}
	if len(parsed.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamInvalid, "image analysis response has no choices")
	}

	drafts, err := extractDrafts(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// extractDrafts pulls the JSON array out of the model reply, tolerating
// surrounding prose.
func extractDrafts(content string) ([]items.Draft, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamInvalid, "no JSON array found in model reply")
	}

	var drafts []items.Draft
	if err := json.Unmarshal([]byte(content[start:end+1]), &drafts); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstreamInvalid, err, "model reply is not a draft array")
	}
	if drafts == nil {
		drafts = []items.Draft{}
	}
	return drafts, nil
}

func analysisPrompt() string {
	categories := strings.Join(items.Categories(), "|")
	sources := strings.Join(items.Sources(), "|")
	return fmt.Sprintf(`Analyze this image and determine:
1. The source type: %q (if this is a receipt/paper document) or "groceries" (if this is a photo of actual food items)
2. All visible food products and their details

For each food item detected, estimate:
1. The name of the food item
2. The category (%s)
3. The estimated shelf life in days (expiryPeriod) based on the food's freshness and typical shelf life

Consider factors like:
- Freshness indicators (color, texture, packaging condition)
- Typical shelf life of each food type
- Any visible expiry dates on packaging

Return ONLY a JSON array of objects with this exact structure:
[
  {
    "name": "string",
    "category": "%s",
    "expiryPeriod": 7,
    "source": "%s"
  }
]

expiryPeriod should be a positive integer representing the number of days the item will stay fresh.
If no food items are visible, return an empty array [].`, sources, categories, categories, sources)
}
