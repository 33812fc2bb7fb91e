package categorizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// GeminiClient implements the AIClient interface using the Google Gemini API.
// The underlying client is created lazily on first use so construction never
// requires network access.
type GeminiClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	logger  logging.Logger

	mu     sync.Mutex
	client *genai.Client
	gen    *genai.GenerativeModel
}

// NewGeminiClient creates a new GeminiClient. The model name defaults to
// gemini-2.0-flash when empty.
func NewGeminiClient(apiKey, model string, timeout time.Duration, logger logging.Logger) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return &apperror.AuthenticationError{
			Service: "gemini",
			Err:     fmt.Errorf("GEMINI_API_KEY not set"),
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return &apperror.APIError{Service: "gemini", Operation: "new_client", Err: err}
	}
	c.client = client
	c.gen = client.GenerativeModel(c.model)
	return nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	c.gen = nil
	return err
}

// Categorize asks Gemini to pick one of the given category names for the
// transaction.
func (c *GeminiClient) Categorize(ctx context.Context, transaction models.Transaction, categories []string) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(transaction, categories)
	resp, err := c.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &apperror.APIError{Service: "gemini", Operation: "generate_content", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &apperror.APIError{
			Service:   "gemini",
			Operation: "generate_content",
			Err:       fmt.Errorf("empty response"),
		}
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	category := extractCategoryFromResponse(responseText, categories)

	c.logger.Debug("Gemini categorized transaction",
		logging.Field{Key: logging.FieldLocation, Value: transaction.Location},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return category, nil
}

func buildPrompt(transaction models.Transaction, categories []string) string {
	return fmt.Sprintf(`Categorize the following financial transaction:
Merchant: %s
Amount: %s
Date: %s
Additional Info: %s

Please assign this transaction to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]
Description: [Brief explanation of why you chose this category]`,
		transaction.Location,
		transaction.Amount.StringFixed(2),
		transaction.Timestamp.Format(dateutils.LayoutISODate),
		transaction.Description,
		strings.Join(categories, ", "))
}

// extractCategoryFromResponse parses the Gemini response. If no structured
// "Category:" line is found, it scans the response for any known category
// name before giving up.
func extractCategoryFromResponse(response string, categories []string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
			name = strings.Trim(name, "[]")
			if name != "" {
				return name
			}
		}
	}

	for _, category := range categories {
		if strings.Contains(response, category) {
			return category
		}
	}
	return models.CategoryUncategorized
}
