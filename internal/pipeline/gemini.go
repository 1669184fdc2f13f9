package pipeline

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is the default Gemini model used for extraction.
const DefaultModelName = "gemini-2.5-flash"

// GeminiClient implements ExtractionClient against the Gemini API.
// The API key is read from the environment by the genai SDK.
type GeminiClient struct {
	model string
}

// NewGeminiClient creates a Gemini-backed extraction client. An empty model
// selects DefaultModelName.
func NewGeminiClient(model string) *GeminiClient {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiClient{model: model}
}

// ExtractFromText submits the instruction and a text input as user content.
func (c *GeminiClient) ExtractFromText(ctx context.Context, instruction, input string) (string, error) {
	return c.generate(ctx, []*genai.Part{
		{Text: instruction},
		{Text: input},
	})
}

// ExtractFromDocument submits the instruction plus the document bytes as an
// inline blob. The SDK handles binary-safe encoding of the bytes.
func (c *GeminiClient) ExtractFromDocument(ctx context.Context, instruction, mimeType string, data []byte) (string, error) {
	return c.generate(ctx, []*genai.Part{
		{Text: instruction},
		{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     data,
			},
		},
	})
}

func (c *GeminiClient) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("generate: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("generate: empty response from model")
	}
	return rawText, nil
}
