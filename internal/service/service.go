package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MariamKalashyan/combinations-api/internal/cache"
	"github.com/MariamKalashyan/combinations-api/internal/combinator"
	"github.com/MariamKalashyan/combinations-api/internal/models"
	"github.com/MariamKalashyan/combinations-api/internal/store"
)

// Business validation errors. Distinguishable from persistence failures so
// callers can map them to the right remediation: fix the request vs. retry.
var (
	ErrLengthTooSmall = errors.New("length must be >= 1")
	ErrItemsEmpty     = errors.New("items must be a non-empty array")
)

// IsValidationError reports whether err is a business validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLengthTooSmall) || errors.Is(err, ErrItemsEmpty)
}

// ResultCache caches computed combination lists by request input. A hit
// skips recomputation only; it never replaces the persistence hand-off.
// Implementations return cache.ErrMiss for absent keys.
type ResultCache interface {
	Get(ctx context.Context, items []int, length int) ([]combinator.Combination, error)
	Set(ctx context.Context, items []int, length int, combos []combinator.Combination) error
}

// CombinationService runs the generation pipeline: validate, label groups,
// enumerate combinations, persist in one unit of work, respond with the new
// identifier. Stateless; safe for concurrent use.
type CombinationService struct {
	store  store.Store
	cache  ResultCache
	logger *zap.Logger
}

// NewCombinationService creates the service. rc may be nil to disable
// result caching.
func NewCombinationService(st store.Store, rc ResultCache, logger *zap.Logger) *CombinationService {
	return &CombinationService{store: st, cache: rc, logger: logger}
}

// Generate validates the request, enumerates every combination of `length`
// items across distinct groups and persists the result. Returns an empty
// result without touching storage when length exceeds the number of
// non-empty groups. Every computable request is recorded and gets a fresh
// identifier, whether or not its combination list came from the cache.
func (s *CombinationService) Generate(ctx context.Context, items []int, length int) (*models.GenerationResult, error) {
	if length < 1 {
		return nil, ErrLengthTooSmall
	}
	if len(items) == 0 {
		return nil, ErrItemsEmpty
	}

	groups := combinator.Label(items)
	if length > len(groups) {
		return &models.GenerationResult{Combinations: []combinator.Combination{}}, nil
	}

	var (
		combos []combinator.Combination
		cached bool
	)
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, items, length)
		switch {
		case err == nil:
			combos = hit
			cached = true
			s.logger.Debug("result cache hit", zap.Ints("items", items), zap.Int("length", length))
		case !errors.Is(err, cache.ErrMiss):
			// Cache trouble never fails a request.
			s.logger.Warn("result cache read failed", zap.Error(err))
		}
	}
	if !cached {
		combos = combinator.Generate(groups, length)
	}

	id, err := s.store.SaveGeneration(ctx, items, length, groups, combos)
	if err != nil {
		return nil, fmt.Errorf("save generation: %w", err)
	}

	if s.cache != nil && !cached {
		if err := s.cache.Set(ctx, items, length, combos); err != nil {
			s.logger.Warn("result cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("generation completed",
		zap.Int64("response_id", id),
		zap.Int("combinations", len(combos)),
		zap.Bool("cached", cached),
	)
	return &models.GenerationResult{ID: &id, Combinations: combos}, nil
}

// GetResponse reads back a stored response.
func (s *CombinationService) GetResponse(ctx context.Context, id int64) (*models.Response, error) {
	return s.store.GetResponse(ctx, id)
}
