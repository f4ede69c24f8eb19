package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/fbedev/diary-ai2/internal/common"
)

const defaultModelName = "gemini-2.0-flash"

// GeminiClient implements Generator against the Gemini API. Every call
// carries a bounded timeout so a slow upstream cannot hang a request.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient builds a Gemini-backed Generator. An empty API key is not
// an error here: the client is still constructed and reports
// ErrGenerationUnavailable on use, which keeps the local fallbacks working
// in unconfigured environments.
func NewGeminiClient(ctx context.Context, apiKey string, modelName string, timeout time.Duration) (*GeminiClient, error) {
	if modelName == "" {
		modelName = defaultModelName
	}

	c := &GeminiClient{modelName: modelName, timeout: timeout}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	c.client = client

	return c, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("api key is not configured: %w", common.ErrGenerationUnavailable)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %v: %w", err, common.ErrGenerationUnavailable)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text: %w", common.ErrGenerationUnavailable)
	}

	return text, nil
}
