package reading

import (
	"context"
	"errors"
	"fmt"

	"tarot-bot/internal/cache"
	"tarot-bot/internal/ephemeris"
	"tarot-bot/internal/models"
	"tarot-bot/pkg/logger"
)

var (
	ErrGeneration = errors.New("narrative generation failed")
	ErrResolve    = errors.New("planet positions unavailable")
)

// Generator turns a system instruction and a prompt into narrative text.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Resolver places the tracked bodies for a birth instant.
type Resolver interface {
	Resolve(q models.BirthQuery) ([]ephemeris.Position, error)
}

// Service derives tarot and chart readings through per-type response caches.
type Service struct {
	generator Generator
	resolver  Resolver
	tarot     *cache.ResponseCache
	chart     *cache.ResponseCache
	logger    *logger.Logger
}

func NewService(generator Generator, resolver Resolver, tarot, chart *cache.ResponseCache, log *logger.Logger) *Service {
	return &Service{
		generator: generator,
		resolver:  resolver,
		tarot:     tarot,
		chart:     chart,
		logger:    log,
	}
}

// Tarot returns a three-card reading for the request text.
func (s *Service) Tarot(ctx context.Context, request string) (string, error) {
	text, cached, err := s.tarot.GetOrGenerate(ctx, request, func(ctx context.Context) (string, error) {
		out, err := s.generator.Generate(ctx, tarotSystem, tarotPrompt(request))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGeneration, err)
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Debugw("Tarot reading ready", "cached", cached, "query", request)
	return text, nil
}

// Chart returns a natal chart interpretation. The cache is keyed by the raw
// input, so a hit skips the resolver as well as the generator.
func (s *Service) Chart(ctx context.Context, q models.BirthQuery) (string, error) {
	text, cached, err := s.chart.GetOrGenerate(ctx, q.Raw, func(ctx context.Context) (string, error) {
		positions, err := s.resolver.Resolve(q)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrResolve, err)
		}
		out, err := s.generator.Generate(ctx, chartSystem, chartPrompt(chartData(q, positions)))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGeneration, err)
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Debugw("Chart reading ready", "cached", cached, "query", q.Raw)
	return text, nil
}

// Stats reports both caches.
func (s *Service) Stats() map[models.ReadingType]cache.Stats {
	return map[models.ReadingType]cache.Stats{
		models.ReadingTarot: s.tarot.Stats(),
		models.ReadingChart: s.chart.Stats(),
	}
}
