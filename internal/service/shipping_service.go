package service

import (
	"context"
	"fmt"

	"shop-admin/internal/domain"
	"shop-admin/internal/envelope"
	"shop-admin/internal/fallback"
	"shop-admin/internal/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultShippingOrderLimit = 50

	fallbackShippingOrderCount = 20
	// shippingStatsSample is the number of synthetic shipments summarized when
	// the stats endpoint is unavailable.
	shippingStatsSample = 100
)

// ShippingStatsResult is the shipping summary with the path that produced it.
type ShippingStatsResult struct {
	Stats  domain.ShippingStats
	Source domain.DataSource
}

// ShippingOverview bundles everything the shipments page shows.
type ShippingOverview struct {
	Providers Result[domain.ShippingProvider]
	Orders    Result[domain.ShippingOrder]
	Stats     ShippingStatsResult
}

// ShippingService defines the shipping aggregation operations
type ShippingService interface {
	GetShippingProviders(ctx context.Context, auth upstream.AuthContext) (Result[domain.ShippingProvider], error)
	GetShippingOrders(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.ShippingOrder], error)
	GetShippingStats(ctx context.Context, auth upstream.AuthContext) (ShippingStatsResult, error)
	GetShippingOverview(ctx context.Context, auth upstream.AuthContext, limit int) (*ShippingOverview, error)
}

type shippingService struct {
	pipeline *pipeline
}

// NewShippingService creates a new instance of ShippingService
func NewShippingService(fetcher upstream.Fetcher, strategy fallback.Strategy, opts Options, logger *zap.Logger) ShippingService {
	opts = opts.withDefaults()
	return &shippingService{
		pipeline: &pipeline{
			fetcher:  fetcher,
			strategy: strategy,
			mode:     opts.Mode,
			logger:   logger,
		},
	}
}

// GetShippingProviders lists the carriers.
func (s *shippingService) GetShippingProviders(ctx context.Context, auth upstream.AuthContext) (Result[domain.ShippingProvider], error) {
	return load(ctx, s.pipeline, auth, resource[domain.ShippingProvider]{
		name:  "shipping providers",
		path:  upstream.ShippingProvidersPath,
		query: upstream.NoQuery,
		decode: func(body []byte) ([]domain.ShippingProvider, error) {
			return envelope.DecodeList[domain.ShippingProvider]("shipping providers", body)
		},
		fallback:        s.pipeline.strategy.ShippingProviders,
		emptyIsFallback: true,
	})
}

// GetShippingOrders lists shipments. An empty listing is a real answer.
func (s *shippingService) GetShippingOrders(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.ShippingOrder], error) {
	return load(ctx, s.pipeline, auth, resource[domain.ShippingOrder]{
		name:  "shipping orders",
		path:  upstream.ShippingOrdersPath,
		query: upstream.Limit(limit),
		decode: func(body []byte) ([]domain.ShippingOrder, error) {
			return envelope.DecodeList[domain.ShippingOrder]("shipping orders", body)
		},
		fallback: func() []domain.ShippingOrder {
			return s.pipeline.strategy.ShippingOrders(fallbackCount(limit, fallbackShippingOrderCount))
		},
	})
}

// GetShippingStats loads the shipping summary. When it is unavailable the
// summary is computed over a synthetic sample of shipments.
func (s *shippingService) GetShippingStats(ctx context.Context, auth upstream.AuthContext) (ShippingStatsResult, error) {
	if s.pipeline.mode == ModeSynthetic {
		return s.syntheticStats(), nil
	}

	stats, err := s.fetchStats(ctx, auth)
	if err == nil {
		return ShippingStatsResult{Stats: *stats, Source: domain.SourceLive}, nil
	}

	if s.pipeline.mode == ModeLive {
		return ShippingStatsResult{}, fmt.Errorf("failed to load shipping stats: %w", err)
	}

	s.pipeline.logger.Warn("Falling back to synthetic data",
		zap.String("resource", "shipping stats"),
		zap.String("path", upstream.ShippingStatsPath),
		zap.Error(err),
	)
	return s.syntheticStats(), nil
}

func (s *shippingService) fetchStats(ctx context.Context, auth upstream.AuthContext) (*domain.ShippingStats, error) {
	body, err := s.pipeline.fetcher.Fetch(ctx, auth, upstream.ShippingStatsPath, upstream.NoQuery)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[domain.ShippingStats]("shipping stats", body)
}

func (s *shippingService) syntheticStats() ShippingStatsResult {
	sample := s.pipeline.strategy.ShippingOrders(shippingStatsSample)
	return ShippingStatsResult{
		Stats:  ComputeShippingStats(sample),
		Source: domain.SourceSynthetic,
	}
}

// GetShippingOverview loads providers, shipments and the summary concurrently.
func (s *shippingService) GetShippingOverview(ctx context.Context, auth upstream.AuthContext, limit int) (*ShippingOverview, error) {
	overview := &ShippingOverview{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("shipping providers", func() (err error) {
		overview.Providers, err = s.GetShippingProviders(gctx, auth)
		return err
	}))
	g.Go(guard("shipping orders", func() (err error) {
		overview.Orders, err = s.GetShippingOrders(gctx, auth, limit)
		return err
	}))
	g.Go(guard("shipping stats", func() (err error) {
		overview.Stats, err = s.GetShippingStats(gctx, auth)
		return err
	}))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load shipping overview: %w", err)
	}
	return overview, nil
}
