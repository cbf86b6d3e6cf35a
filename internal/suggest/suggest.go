// Package suggest asks a Gemini model which spending category a transaction
// most likely belongs to. Suggestions are advisory: they are shown to the
// operator next to the manual choice and never applied on their own.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"receiptbook/internal/logging"
	"receiptbook/internal/models"
)

// Suggester wraps the Gemini client.
type Suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    logging.Logger
}

// New creates a Suggester using the given API key and model name.
func New(ctx context.Context, apiKey, modelName string, log logging.Logger) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Suggester{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    log,
	}, nil
}

// Close releases the underlying client.
func (s *Suggester) Close() error {
	return s.client.Close()
}

// Category suggests a spending category for a transaction title. The answer
// is constrained to the defined goods categories; anything else comes back
// as an error so the operator falls through to a manual pick.
func (s *Suggester) Category(ctx context.Context, tx *models.Transaction) (models.CellType, error) {
	categoryNames := make([]string, len(models.GoodsTypes))
	for i, t := range models.GoodsTypes {
		categoryNames[i] = t.String()
	}

	prompt := fmt.Sprintf(`Categorize the following bank card transaction:
Merchant: %s
Amount: %s
Date: %s

Please assign this transaction to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`,
		tx.Title,
		tx.Price.StringFixed(2),
		tx.Created.Format("2006-01-02"),
		strings.Join(categoryNames, ", "))

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.Regular, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.Regular, fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	name := extractCategory(responseText)
	category, ok := models.ParseCellType(name)
	if !ok || !models.IsGoodsType(category) {
		return models.Regular, fmt.Errorf("model suggested unusable category %q", name)
	}

	s.log.WithFields(
		logging.Field{Key: "merchant", Value: tx.Title},
		logging.Field{Key: "category", Value: category.String()},
	).Debug("category suggested by model")
	return category, nil
}

// extractCategory pulls the category name out of the structured response.
func extractCategory(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			return strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "Category:")), "[]")
		}
	}
	return strings.TrimSpace(response)
}
