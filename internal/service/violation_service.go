package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/metrics"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/tracing"
	"github.com/quietst00rm/seller-zenith-44/internal/repository"
	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

// Clock supplies the current time to date-dependent computations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns t. Used for demo data sets pinned to a date.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// ViolationList is the response of a violations query.
type ViolationList struct {
	Items         []models.Issue     `json:"items"`
	Total         int                `json:"total"`
	Summary       violations.Summary `json:"summary"`
	Sort          violations.Sort    `json:"sort"`
	ActiveFilters int                `json:"activeFilters"`
}

// ViolationService runs view queries over the record store.
type ViolationService interface {
	List(ctx context.Context, view violations.ViewState) (*ViolationList, error)
	Summary(ctx context.Context, view violations.ViewState) (*violations.Summary, error)
	Breakdown(ctx context.Context, view violations.ViewState) (*violations.Breakdown, error)
	Get(ctx context.Context, id string) (*models.Issue, error)
}

// ViolationOptions tunes the violation service.
type ViolationOptions struct {
	Policy    violations.Policy
	CacheSize int // 0 disables the cache
	CacheTTL  time.Duration
}

type violationService struct {
	repo   repository.IssueRepository
	clock  Clock
	policy violations.Policy
	cache  *expirable.LRU[string, []models.Issue]
	log    *zap.Logger
}

// NewViolationService creates a new violation service.
func NewViolationService(repo repository.IssueRepository, clock Clock, opts ViolationOptions, log *zap.Logger) ViolationService {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &violationService{
		repo:   repo,
		clock:  clock,
		policy: opts.Policy,
		log:    log,
	}
	if s.policy.SLAThresholdDays <= 0 {
		s.policy = violations.DefaultPolicy
	}
	if opts.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, []models.Issue](opts.CacheSize, nil, opts.CacheTTL)
	}
	return s
}

func (s *violationService) List(ctx context.Context, view violations.ViewState) (*ViolationList, error) {
	ctx, span := tracing.StartSpan(ctx, "violations.List")
	defer span.End()

	now := s.clock.Now()
	items, err := s.query(ctx, view, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("violations.count", len(items)))
	metrics.ViolationQueryResults.Observe(float64(len(items)))

	return &ViolationList{
		Items:         items,
		Total:         len(items),
		Summary:       violations.Summarize(items, now, s.policy),
		Sort:          view.Sort,
		ActiveFilters: view.ActiveFilterCount(),
	}, nil
}

func (s *violationService) Summary(ctx context.Context, view violations.ViewState) (*violations.Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "violations.Summary")
	defer span.End()

	now := s.clock.Now()
	items, err := s.query(ctx, view, now)
	if err != nil {
		return nil, err
	}
	sum := violations.Summarize(items, now, s.policy)
	return &sum, nil
}

func (s *violationService) Breakdown(ctx context.Context, view violations.ViewState) (*violations.Breakdown, error) {
	ctx, span := tracing.StartSpan(ctx, "violations.Breakdown")
	defer span.End()

	items, err := s.query(ctx, view, s.clock.Now())
	if err != nil {
		return nil, err
	}
	b := violations.BreakdownOf(items)
	return &b, nil
}

func (s *violationService) Get(ctx context.Context, id string) (*models.Issue, error) {
	return s.repo.Get(ctx, id)
}

// query returns the filtered, ordered records for view. Cached slices are
// shared between callers and must not be modified.
func (s *violationService) query(ctx context.Context, view violations.ViewState, now time.Time) ([]models.Issue, error) {
	// Presets are relative to today, so the date is part of the key.
	key := models.DateOf(now).String() + "?" + view.Encode().Encode()
	if s.cache != nil {
		if items, ok := s.cache.Get(key); ok {
			metrics.ViolationCacheHitsTotal.Inc()
			return slices.Clone(items), nil
		}
		metrics.ViolationCacheMissesTotal.Inc()
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	items, err := view.Apply(all, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply view: %w", err)
	}
	logger.For(ctx, s.log).Debug("violations query",
		zap.String("key", key),
		zap.Int("matched", len(items)),
		zap.Int("total", len(all)),
	)
	if s.cache != nil {
		s.cache.Add(key, items)
		return slices.Clone(items), nil
	}
	return items, nil
}
