package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/config"
	"github.com/beanbook/beanbook/internal/extraction/domain"
	"github.com/beanbook/beanbook/pkg/htmltext"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Extractor asks a Gemini model for AttributeRecord-shaped JSON.
type Extractor struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) (domain.Extractor, error) {
	if cfg.GenAIAPIKey == "" {
		return nil, fmt.Errorf("GENAI_API_KEY is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GenAIAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Extractor{
		client: client,
		model:  cfg.GenAIModel,
		log:    log.Named("extraction.genai"),
	}, nil
}

// wire mirrors the JSON shape requested in the prompt. All fields are
// nullable so a sparse listing produces a sparse record, not an error.
type wire struct {
	IsSingleOrigin *bool `json:"is_single_origin"`
	Origin         struct {
		Country *string `json:"country"`
		Region  *string `json:"region"`
	} `json:"origin"`
	ProcessingMethod  *string  `json:"processing_method"`
	RoastLevel        *string  `json:"roast_level"`
	Varietals         []string `json:"varietals"`
	Altitude          *string  `json:"altitude"`
	Farm              *string  `json:"farm"`
	Producer          *string  `json:"producer"`
	TastingNotes      struct {
		Fruits  []string `json:"fruits"`
		Sweets  []string `json:"sweets"`
		Florals []string `json:"florals"`
		Spices  []string `json:"spices"`
		Others  []string `json:"others"`
	} `json:"tasting_notes"`
	ConfidenceScore   float64 `json:"confidence_score"`
	RestingPeriodDays *int    `json:"resting_period_days"`
}

func (e *Extractor) Extract(ctx context.Context, input domain.Input) (domain.Extraction, error) {
	prompt := buildPrompt(input)

	resp, err := e.client.Models.GenerateContent(ctx, e.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.1),
		},
	)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extraction call: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	var w wire
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return domain.Extraction{}, fmt.Errorf("decode extraction response: %w", err)
	}

	out := domain.Extraction{
		SingleOrigin:      catalogdomain.CoffeeTypeUnknown,
		OriginCountry:     deref(w.Origin.Country),
		OriginRegion:      deref(w.Origin.Region),
		ProcessMethod:     deref(w.ProcessingMethod),
		RoastLevel:        deref(w.RoastLevel),
		Varietals:         w.Varietals,
		Altitude:          deref(w.Altitude),
		Farm:              deref(w.Farm),
		Producer:          deref(w.Producer),
		Confidence:        w.ConfidenceScore,
		RestingPeriodDays: w.RestingPeriodDays,
	}
	out.TastingNotes = catalogdomain.TastingNotes{
		Fruits:  w.TastingNotes.Fruits,
		Sweets:  w.TastingNotes.Sweets,
		Florals: w.TastingNotes.Florals,
		Spices:  w.TastingNotes.Spices,
		Others:  w.TastingNotes.Others,
	}
	if w.IsSingleOrigin != nil {
		if *w.IsSingleOrigin {
			out.SingleOrigin = catalogdomain.CoffeeTypeSingleOrigin
		} else {
			out.SingleOrigin = catalogdomain.CoffeeTypeBlend
		}
	}

	e.log.Debug("attributes extracted",
		zap.String("title", input.Title),
		zap.Float64("confidence", out.Confidence),
	)
	return out, nil
}

func buildPrompt(input domain.Input) string {
	var b strings.Builder
	b.WriteString("Extract coffee product details from this text. Pay special attention to the PRODUCT TITLE for determining if this is a blend or single origin coffee.\n\n")

	if input.Title != "" {
		b.WriteString("=== PRODUCT TITLE ===\n")
		b.WriteString(input.Title)
		b.WriteString("\n\n")
	}
	if input.BodyHTML != "" {
		b.WriteString("=== PRODUCT DESCRIPTION ===\n")
		b.WriteString(htmltext.Clean(input.BodyHTML))
		b.WriteString("\n\n")
	}
	if len(input.Tags) > 0 {
		b.WriteString("=== PRODUCT TAGS ===\n")
		b.WriteString("Tags: " + strings.Join(input.Tags, ", "))
		b.WriteString("\n\n")
	}

	b.WriteString(`Return a JSON object with these fields:
- is_single_origin: true/false/null (if unclear)
  - true if it's from one specific farm, producer, or region
  - false if it contains the word "blend" or mentions multiple origins
  - null if unclear
- origin: {"country": string/null, "region": string/null}
- processing_method: string/null
- roast_level: string/null
- varietals: list of strings
- altitude: string/null (include units)
- farm: string/null
- producer: string/null
- tasting_notes: {"fruits": [], "sweets": [], "florals": [], "spices": [], "others": []} (lists of strings)
- confidence_score: float (0-1)
- resting_period_days: integer/null (recommended resting period, if stated)

Only state what the text supports; use null for anything not stated.`)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
