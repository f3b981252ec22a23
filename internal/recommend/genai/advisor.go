package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/beanbook/beanbook/internal/config"
	"github.com/beanbook/beanbook/internal/recommend/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Advisor delegates candidate scoring to a Gemini model. The model only
// sees the evaluation request; validation of its answer stays with the
// selector.
type Advisor struct {
	client    *genai.Client
	model     string
	maxTokens int32
	log       *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) (domain.Advisor, error) {
	if cfg.GenAIAPIKey == "" {
		return nil, fmt.Errorf("GENAI_API_KEY is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GenAIAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Advisor{
		client:    client,
		model:     cfg.GenAIModel,
		maxTokens: int32(cfg.GenAIMaxOutputToken),
		log:       log.Named("recommend.genai"),
	}, nil
}

func (a *Advisor) Advise(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			MaxOutputTokens: a.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("reasoning call: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	a.log.Debug("reasoning response received", zap.Int("length", len(text)))
	return text, nil
}
