package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/observability"
	"github.com/atis-edu/assessment-api/internal/repository"
)

const (
	academicYearsCacheKey = "reference:academic_years"
	institutionsCacheKey  = "reference:institutions"
)

// ReferenceService exposes the reference collections backing the assessment
// dialog dropdowns, plus the advisory defaults derived from them.
type ReferenceService interface {
	AcademicYears(ctx context.Context) ([]dto.AcademicYearResponse, error)
	Institutions(ctx context.Context) ([]dto.InstitutionResponse, error)
	Defaults(ctx context.Context) (dto.ReferenceDefaults, error)
}

type referenceService struct {
	repo     repository.ReferenceRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewReferenceService constructs a reference data service with optional Redis caching.
func NewReferenceService(repo repository.ReferenceRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ReferenceService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &referenceService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "reference_service").Logger(),
	}
}

func (s *referenceService) AcademicYears(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	var cached []dto.AcademicYearResponse
	if s.readCache(ctx, academicYearsCacheKey, "academic_years", &cached) {
		return cached, nil
	}

	years, err := s.repo.ListAcademicYears(ctx)
	if err != nil {
		return nil, err
	}

	responses := dto.NewAcademicYearResponseSlice(years)
	s.writeCache(ctx, academicYearsCacheKey, responses)
	return responses, nil
}

func (s *referenceService) Institutions(ctx context.Context) ([]dto.InstitutionResponse, error) {
	var cached []dto.InstitutionResponse
	if s.readCache(ctx, institutionsCacheKey, "institutions", &cached) {
		return cached, nil
	}

	institutions, err := s.repo.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}

	responses := dto.NewInstitutionResponseSlice(institutions)
	s.writeCache(ctx, institutionsCacheKey, responses)
	return responses, nil
}

// Defaults resolves the advisory pre-fill values: the first academic year
// flagged active, and the institution the user's scope implies when it is
// unambiguous (exactly one institution loaded). Absent or ambiguous data
// yields nil members rather than an error.
func (s *referenceService) Defaults(ctx context.Context) (dto.ReferenceDefaults, error) {
	defaults := dto.ReferenceDefaults{}

	years, err := s.AcademicYears(ctx)
	if err != nil {
		return defaults, err
	}
	for i := range years {
		if years[i].IsActive {
			defaults.ActiveAcademicYear = &years[i]
			break
		}
	}

	institutions, err := s.Institutions(ctx)
	if err != nil {
		return defaults, err
	}
	if len(institutions) == 1 {
		defaults.DefaultInstitution = &institutions[0]
	}

	return defaults, nil
}

func (s *referenceService) readCache(ctx context.Context, key, collection string, target interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("reference cache read failed")
		}
		observability.ReferenceCache().WithLabelValues(collection, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("reference cache payload corrupt")
		observability.ReferenceCache().WithLabelValues(collection, "miss").Inc()
		return false
	}
	observability.ReferenceCache().WithLabelValues(collection, "hit").Inc()
	return true
}

func (s *referenceService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("reference cache write failed")
	}
}
