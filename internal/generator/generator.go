// Package generator produces stage content with one request to an external
// text-completion service.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/stagehand/pkg/tracing"
)

// Options fixes the sampling parameters sent with every request.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Generator turns a resolved stage prompt into generated content.
type Generator struct {
	completer Completer
	options   Options
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates a Generator. A nil tracer disables spans.
func New(completer Completer, options Options, logger *slog.Logger, tracer trace.Tracer) *Generator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("generator")
	}
	return &Generator{
		completer: completer,
		options:   options,
		logger:    logger.With("system", "generator"),
		tracer:    tracer,
	}
}

// SystemInstruction returns the system message used for stageID.
func SystemInstruction(stageID string) string {
	return fmt.Sprintf("Expert SDLC assistant. Provide detailed output for %s.", stageID)
}

// Generate sends promptText for stageID and returns the generated content.
// It makes exactly one request. Every failure, including an empty response,
// is returned as a *GenerationError.
func (g *Generator) Generate(ctx context.Context, credential, promptText, stageID string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "generator.generate",
		trace.WithAttributes(
			attribute.String(tracing.StageIDKey, stageID),
			attribute.String("gen_ai.request.model", g.options.Model),
			attribute.Float64("gen_ai.request.temperature", g.options.Temperature),
			attribute.Int("gen_ai.request.max_tokens", g.options.MaxOutputTokens),
		),
	)
	defer span.End()

	start := time.Now()

	content, err := g.complete(ctx, credential, promptText, stageID)
	if err != nil {
		genErr := &GenerationError{StageID: stageID, Err: err}
		tracing.SetError(span, genErr)
		g.logger.Warn("generation failed",
			"stage", stageID,
			"duration", time.Since(start),
			"error", err,
		)
		return "", genErr
	}

	span.SetAttributes(attribute.Int("stagehand.content.bytes", len(content)))
	g.logger.Info("content generated",
		"stage", stageID,
		"duration", time.Since(start),
		"bytes", len(content),
	)
	return content, nil
}

func (g *Generator) complete(ctx context.Context, credential, promptText, stageID string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", ErrNoCredential
	}

	content, err := g.completer.Complete(ctx, Request{
		Credential:        credential,
		SystemInstruction: SystemInstruction(stageID),
		UserMessage:       promptText,
		Model:             g.options.Model,
		Temperature:       g.options.Temperature,
		MaxOutputTokens:   g.options.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
