// Package gemini adapts Google's Gemini API to advisor.Generator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"moneymind/internal/domain/advisor"
)

var ErrNotConfigured = errors.New("API key not configured")

var (
	genTracer      = otel.Tracer("moneymind.gemini")
	genMeter       = otel.Meter("moneymind.gemini")
	genDuration, _ = genMeter.Float64Histogram("ai.generate.duration", metric.WithDescription("Model call duration in seconds"), metric.WithUnit("s"))
	genTotal, _    = genMeter.Int64Counter("ai.generate.total", metric.WithDescription("Model calls by outcome"))
)

type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models contentModel
	model  string
}

// New returns an advisor.Generator. Without an API key every call fails
// with a configuration error instead of failing at startup.
func New(ctx context.Context, apiKey, model string) (advisor.Generator, error) {
	if apiKey == "" {
		return unconfigured{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Generator{models: client.Models, model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := genTracer.Start(ctx, "gemini.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.system", "gemini"),
			attribute.String("gen_ai.request.model", g.model),
			attribute.Int("prompt.length", len(prompt)),
		),
	)
	defer span.End()
	start := time.Now()

	text, err := g.generate(ctx, prompt)

	outcome := "success"
	if err != nil {
		var genErr *advisor.GenerationError
		errors.As(err, &genErr)
		outcome = kindLabel(genErr.Kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(attribute.String("model", g.model), attribute.String("outcome", outcome))
	genTotal.Add(ctx, 1, attrs)
	genDuration.Record(ctx, time.Since(start).Seconds(), attrs)

	return text, err
}

// generate always returns a *advisor.GenerationError on failure.
func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &advisor.GenerationError{Kind: classify(err), Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &advisor.GenerationError{Kind: advisor.KindUpstream, Err: errors.New("empty response from model")}
	}
	return text, nil
}

func kindLabel(k advisor.ErrorKind) string {
	switch k {
	case advisor.KindConfig:
		return "config"
	case advisor.KindBusy:
		return "busy"
	default:
		return "upstream"
	}
}

func classify(err error) advisor.ErrorKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyAPIError(*apiErrPtr)
	}
	return advisor.Classify(err)
}

func classifyAPIError(e genai.APIError) advisor.ErrorKind {
	switch {
	case e.Code == http.StatusTooManyRequests, e.Status == "RESOURCE_EXHAUSTED":
		return advisor.KindBusy
	case e.Code == http.StatusServiceUnavailable:
		return advisor.KindBusy
	case strings.Contains(strings.ToLower(e.Message), "api key"):
		return advisor.KindConfig
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return advisor.KindConfig
	default:
		return advisor.Classify(errors.New(e.Message))
	}
}

type unconfigured struct{}

func (unconfigured) Generate(ctx context.Context, prompt string) (string, error) {
	return "", &advisor.GenerationError{Kind: advisor.KindConfig, Err: ErrNotConfigured}
}
