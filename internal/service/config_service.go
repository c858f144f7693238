package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type scheduleConfigRepo interface {
	FindByTerm(ctx context.Context, schoolID, termID string) (*models.ScheduleConfig, error)
	FindDefault(ctx context.Context, schoolID string) (*models.ScheduleConfig, error)
	Upsert(ctx context.Context, cfg *models.ScheduleConfig) error
}

// UpsertScheduleConfigRequest stores working days and lunch position for a
// school, optionally scoped to one term.
type UpsertScheduleConfigRequest struct {
	TermID           *string `json:"term_id"`
	WorkingDays      []int   `json:"working_days" validate:"required,min=1,max=7,dive,min=0,max=6"`
	LunchAfterPeriod *int    `json:"lunch_after_period" validate:"omitempty,min=1"`
}

// ConfigService resolves the working-day set and lunch position feeding the
// day/period axes of every other component.
type ConfigService struct {
	repo      scheduleConfigRepo
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigService builds the resolver.
func NewConfigService(repo scheduleConfigRepo, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigService{repo: repo, cache: cache, validator: validate, logger: logger}
}

func configCacheKey(schoolID, termID string) string {
	return fmt.Sprintf("schedcfg:%s:%s", schoolID, termID)
}

// Resolve returns the effective configuration for a term: term-scoped row
// first, then the school-wide default row, then the hard default (Sun-Thu,
// no lunch marker). Absence of configuration is never an error.
func (s *ConfigService) Resolve(ctx context.Context, schoolID, termID string) (models.ResolvedScheduleConfig, error) {
	var resolved models.ResolvedScheduleConfig
	key := configCacheKey(schoolID, termID)
	if hit, _ := s.cache.Get(ctx, key, &resolved); hit {
		return resolved, nil
	}

	row, err := s.repo.FindByTerm(ctx, schoolID, termID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return resolved, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule config")
		}
		row, err = s.repo.FindDefault(ctx, schoolID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return resolved, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load default schedule config")
		}
	}

	resolved = resolveConfigRow(row)
	_ = s.cache.Set(ctx, key, resolved, 0)
	return resolved, nil
}

// Upsert stores a config row and invalidates resolved entries for the school.
func (s *ConfigService) Upsert(ctx context.Context, schoolID string, req UpsertScheduleConfigRequest) (*models.ScheduleConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule config payload")
	}

	days := normalizeWorkingDays(req.WorkingDays)
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "working_days must contain at least one day between 0-6")
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid working_days payload")
	}

	cfg := &models.ScheduleConfig{
		SchoolID:         schoolID,
		TermID:           req.TermID,
		WorkingDays:      types.JSONText(raw),
		LunchAfterPeriod: req.LunchAfterPeriod,
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert schedule config")
	}

	s.cache.Invalidate(ctx, fmt.Sprintf("schedcfg:%s:*", schoolID))
	return cfg, nil
}

func resolveConfigRow(row *models.ScheduleConfig) models.ResolvedScheduleConfig {
	resolved := models.ResolvedScheduleConfig{WorkingDays: append([]int(nil), models.DefaultWorkingDays...)}
	if row == nil {
		return resolved
	}
	if len(row.WorkingDays) > 0 {
		var days []int
		if err := json.Unmarshal(row.WorkingDays, &days); err == nil {
			if days = normalizeWorkingDays(days); len(days) > 0 {
				resolved.WorkingDays = days
			}
		}
	}
	resolved.LunchAfterPeriod = row.LunchAfterPeriod
	return resolved
}

func normalizeWorkingDays(days []int) []int {
	unique := make(map[int]struct{})
	for _, day := range days {
		if day < 0 || day > 6 {
			continue
		}
		unique[day] = struct{}{}
	}
	result := make([]int, 0, len(unique))
	for day := range unique {
		result = append(result, day)
	}
	sort.Ints(result)
	return result
}
