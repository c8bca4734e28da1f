// Package gemini is the concrete extraction-service client: it sends PDF
// bytes to a Gemini model and returns the raw text response for the
// response extractor to clean. Everything past this package is offline text
// processing; this is the only component that touches the network.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/bill2csv/internal/batch"
	"github.com/dvloznov/bill2csv/internal/category"
	"github.com/dvloznov/bill2csv/internal/retry"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// Default model settings. Low temperature keeps the tabular output
// deterministic; the token ceiling is the documented model maximum.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 65536
)

// Client calls the Gemini API to extract the expense table from a bill PDF.
type Client struct {
	genai           *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	policy          retry.Policy
}

// Options tune the client; zero values fall back to the defaults above.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Policy          *retry.Policy
}

// NewClient builds a Gemini-backed extraction client.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini.NewClient: create genai client: %w", err)
	}

	c := &Client{
		genai:           gc,
		model:           DefaultModel,
		temperature:     DefaultTemperature,
		maxOutputTokens: DefaultMaxOutputTokens,
		policy:          retry.Default(IsTransient),
	}
	if opts.Model != "" {
		c.model = opts.Model
	}
	if opts.Temperature > 0 {
		c.temperature = opts.Temperature
	}
	if opts.MaxOutputTokens > 0 {
		c.maxOutputTokens = opts.MaxOutputTokens
	}
	if opts.Policy != nil {
		c.policy = *opts.Policy
	}
	return c, nil
}

// Model returns the configured model name, for run metadata.
func (c *Client) Model() string {
	return c.model
}

// ExtractTable sends the PDF and the extraction prompt to the model and
// returns the raw response text. Transient API failures are retried per the
// client's policy; anything else propagates immediately.
func (c *Client) ExtractTable(ctx context.Context, pdfBytes []byte, schema batch.Schema, categories *category.Index) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(schema, categories)},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     pdfBytes,
					},
				},
			},
		},
	}

	var raw string
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, c.generateConfig())
		if err != nil {
			return fmt.Errorf("gemini.ExtractTable: generate content: %w", err)
		}
		text := resp.Text()
		if text == "" {
			return fmt.Errorf("gemini.ExtractTable: empty response from model")
		}
		raw = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	// Bills trip the default filters often enough (late fees, medical
	// line items) that blocking is disabled for this extraction task.
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, hc := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  hc,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
		CandidateCount:  1,
		SafetySettings:  settings,
	}
}

// IsTransient classifies API errors for the retry policy: rate limiting,
// service-unavailable, gateway, and internal-server-class failures retry;
// authentication and malformed-request failures do not.
func IsTransient(err error) bool {
	code := 0
	var apiErr genai.APIError
	var gErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &gErr):
		code = gErr.Code
	default:
		return false
	}
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
