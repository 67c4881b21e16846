package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/iho/cashflow/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const temperature float32 = 0.7

var errEmptyResponse = errors.New("empty response from model")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator writes CFO-style cash-flow reports with a Gemini model.
type GeminiGenerator struct {
	models contentGenerator
	model  string
	logger zerolog.Logger
}

// NewGeminiGenerator creates a client for the Gemini API. It fails when
// apiKey is empty; callers treat that as "advisor disabled".
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{models: client.Models, model: model, logger: logger}, nil
}

// GenerateInsights returns the model's Markdown report for summaries.
func (g *GeminiGenerator) GenerateInsights(ctx context.Context, summaries []domain.TransactionSummary) (string, error) {
	prompt, err := BuildPrompt(summaries)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}

	g.logger.Debug().Str("model", g.model).Int("transactions", len(summaries)).Int("chars", len(text)).Msg("insight generated")
	return text, nil
}

// BuildPrompt renders the analyst instructions followed by the data as JSON.
func BuildPrompt(summaries []domain.TransactionSummary) (string, error) {
	if summaries == nil {
		summaries = []domain.TransactionSummary{}
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("marshal summaries: %w", err)
	}

	var b strings.Builder
	b.WriteString("Act as a senior CFO and financial analyst for TTG Group.\n")
	b.WriteString("Analyze the following transaction data and provide a concise strategic report in Vietnamese.\n")
	b.WriteString("Focus on:\n")
	b.WriteString("1. Cash flow health (Liquidity).\n")
	b.WriteString("2. Expense optimization (especially over-budget items).\n")
	b.WriteString("3. Strategic recommendations for next month.\n")
	b.WriteString("4. Any critical warnings.\n\n")
	b.WriteString("Data: ")
	b.Write(data)
	b.WriteString("\n\nReturn your analysis in Markdown format. Be professional, direct, and insightful.\n")

	return b.String(), nil
}
