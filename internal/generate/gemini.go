package generate

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/roach88/designrail/internal/card"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// contentModel is the part of *genai.Models the generator calls.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator asks the Gemini API for a JSON card.
type GeminiGenerator struct {
	models   contentModel
	model    string
	finisher *Finisher
	logger   *slog.Logger
}

// GeminiOption configures a GeminiGenerator.
type GeminiOption func(*GeminiGenerator)

// WithModel overrides DefaultModel.
func WithModel(model string) GeminiOption {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) GeminiOption {
	return func(g *GeminiGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey string, f *Finisher, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, &GenerationError{Message: "Gemini API key is required"}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &GenerationError{Message: "create Gemini client", Err: err}
	}
	return newGemini(client.Models, f, opts...), nil
}

func newGemini(models contentModel, f *Finisher, opts ...GeminiOption) *GeminiGenerator {
	g := &GeminiGenerator{
		models:   models,
		model:    DefaultModel,
		finisher: f,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate sends the prompts in JSON response mode and validates the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (card.Card, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	system := req.System
	if def, err := g.finisher.SchemaText(req); err == nil {
		system += "\n\nThe reply must satisfy this CUE schema:\n" + def
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	contents := []*genai.Content{
		genai.NewContentFromText(req.Context, genai.RoleUser),
	}

	g.logger.Debug("generating card", "model", g.model, "kind", req.Kind, "schema", req.Schema)
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("%s request", g.model), Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &GenerationError{Message: "no candidates returned"}
	}

	c, err := g.finisher.Finish(req, []byte(resp.Text()))
	if err != nil {
		g.logger.Warn("generated card rejected", "kind", req.Kind, "error", err)
		return nil, err
	}
	return c, nil
}
