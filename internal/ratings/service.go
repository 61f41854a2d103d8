// Package ratings serves rated views of the product catalog.
//
// Service는 저장소(contracts.ProductRepository)와 스코어링 엔진을 묶는다.
// 레이팅은 저장하지 않고 조회 시점에 계산하며, Redis가 켜져 있으면
// 제품 id + updatedAt 키로 캐시한다.
package ratings

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/recorder"
	"github.com/wonny/cohorent/backend/internal/scoring"
	"github.com/wonny/cohorent/backend/pkg/logger"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// Service provides rated catalog operations
// ⭐ SSOT: API/CLI/스케줄러는 이 서비스를 통해서만 카탈로그에 접근
type Service struct {
	repo     contracts.ProductRepository
	engine   *scoring.Engine
	cache    *redis.Cache
	recorder recorder.Recorder
	logger   *logger.Logger

	now         func() time.Time
	newID       func() string
	parallelism int

	group singleflight.Group

	mu   sync.Mutex
	last map[string]lastRating // 마지막 재채점 결과 (전이 감지용)
}

type lastRating struct {
	rating int
	label  contracts.StatusLabel
}

// Option configures a Service
type Option func(*Service)

// WithCache enables the rating cache
func WithCache(cache *redis.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithRecorder sets where rescored snapshots and transitions are written
func WithRecorder(rec recorder.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// WithClock injects the time source used for product timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator injects the product id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithParallelism bounds concurrent scoring in list operations
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// NewService creates a ratings service
func NewService(repo contracts.ProductRepository, engine *scoring.Engine, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if engine == nil {
		engine = scoring.NewEngine(nil)
	}

	s := &Service{
		repo:        repo,
		engine:      engine,
		recorder:    recorder.NewNoopRecorder(),
		logger:      log,
		now:         time.Now,
		newID:       uuid.NewString,
		parallelism: runtime.NumCPU(),
		last:        make(map[string]lastRating),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the scoring engine
func (s *Service) Engine() *scoring.Engine {
	return s.engine
}

// Score rates an ad-hoc record without touching the catalog
func (s *Service) Score(rec contracts.ProductRecord) contracts.RatingSnapshot {
	return s.engine.ComputeRating(rec)
}

// ListFilter narrows List results. Zero values mean no filter.
type ListFilter struct {
	Phase  *contracts.Phase
	Status contracts.StatusLabel
	Limit  int
}

// List returns all products with their rating summary, in catalog order
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ProductSummary, error) {
	rated, err := s.rateAll(ctx, s.rate)
	if err != nil {
		return nil, err
	}

	out := make([]ProductSummary, 0, len(rated))
	for _, r := range rated {
		if filter.Phase != nil && r.product.Phase != *filter.Phase {
			continue
		}
		if filter.Status != "" && r.snapshot.StatusLabel != filter.Status {
			continue
		}
		out = append(out, newProductSummary(r.product, r.snapshot))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Get returns a product with its full rating breakdown
func (s *Service) Get(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.rate(ctx, p)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: p, Rating: snap}, nil
}

// Create validates input and stores a new product
func (s *Service) Create(ctx context.Context, in CreateProductInput) (*ProductDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	p := &contracts.Product{
		ID:              "prod_" + shortID(s.newID()),
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Tags:            in.Tags,
		Phase:           *in.Phase,
		ExternalSignals: in.ExternalSignals,
		Economics:       in.Economics,
		Performance:     in.Performance,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidateSummary(ctx)

	s.logger.WithFields(map[string]interface{}{
		"product_id": p.ID,
		"phase":      p.Phase.String(),
	}).Info("Product created")

	return &ProductDetail{Product: p, Rating: s.engine.RateProduct(p)}, nil
}

// Update applies a partial update and bumps updatedAt
func (s *Service) Update(ctx context.Context, id string, patch contracts.ProductPatch) (*ProductDetail, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	if err := validateRequired(p.Name, p.Category); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.timestamp()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidateSummary(ctx)

	s.logger.WithField("product_id", id).Info("Product updated")

	return &ProductDetail{Product: p, Rating: s.engine.RateProduct(p)}, nil
}

// Delete removes a product
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)

	s.mu.Lock()
	delete(s.last, id)
	s.mu.Unlock()

	s.logger.WithField("product_id", id).Info("Product deleted")
	return nil
}

// rated pairs a product with its snapshot
type rated struct {
	product  *contracts.Product
	snapshot contracts.RatingSnapshot
}

type scoreFunc func(ctx context.Context, p *contracts.Product) (contracts.RatingSnapshot, error)

// rateAll scores the whole catalog with bounded parallelism, preserving order
func (s *Service) rateAll(ctx context.Context, score scoreFunc) ([]rated, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]rated, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			snap, err := score(gctx, p)
			if err != nil {
				return err
			}
			out[i] = rated{product: p, snapshot: snap}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// rate scores one product, going through the cache when configured
func (s *Service) rate(ctx context.Context, p *contracts.Product) (contracts.RatingSnapshot, error) {
	if s.cache == nil {
		return s.engine.RateProduct(p), nil
	}

	key := redis.RatingKey(p.ID, p.UpdatedAt, s.engine.AlgoVersion())
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var snap contracts.RatingSnapshot
		err := s.cache.GetOrSet(ctx, key, &snap, redis.TTLMedium, func() (interface{}, error) {
			return s.engine.RateProduct(p), nil
		})
		return snap, err
	})
	if err != nil {
		s.logger.WithError(err).WithField("product_id", p.ID).Warn("Rating cache failed, scoring directly")
		return s.engine.RateProduct(p), nil
	}
	return v.(contracts.RatingSnapshot), nil
}

// rateFresh always runs the engine (rescoring needs new snapshot ids and timestamps)
func (s *Service) rateFresh(_ context.Context, p *contracts.Product) (contracts.RatingSnapshot, error) {
	return s.engine.RateProduct(p), nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redis.PortfolioSummaryKey(s.engine.AlgoVersion())); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate portfolio summary")
	}
}

// timestamp truncates to microseconds so values survive a postgres round trip
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
