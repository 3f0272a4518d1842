package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"shop-admin/internal/domain"
	"shop-admin/internal/envelope"
	"shop-admin/internal/fallback"
	"shop-admin/internal/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultProductLimit approximates "all products".
	DefaultProductLimit = 1000
	DefaultOrderLimit   = 100
	DefaultUserLimit    = 100

	fallbackProductCount = 30
	fallbackOrderCount   = 20
)

var (
	// ErrDashboardStats is returned when the dashboard cannot be assembled at
	// all, as opposed to a single resource being unavailable.
	ErrDashboardStats = errors.New("unable to load dashboard statistics")
	ErrUserNotFound   = errors.New("user not found")
)

// DashboardReport is the aggregated dashboard with the source of each
// resource it was built from.
type DashboardReport struct {
	Stats   domain.DashboardStats
	Sources map[string]domain.DataSource
}

// StatsService defines the dashboard aggregation operations
type StatsService interface {
	GetDashboardStats(ctx context.Context, auth upstream.AuthContext) (*DashboardReport, error)
	GetProducts(ctx context.Context, auth upstream.AuthContext, skip, limit int) (Result[domain.Product], error)
	GetOrders(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.Order], error)
	GetUsers(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.User], error)
	GetUserByID(ctx context.Context, auth upstream.AuthContext, id int64) (*domain.User, domain.DataSource, error)
	GetCategories(ctx context.Context) []domain.Category
	GenerateCategoryData(ctx context.Context, auth upstream.AuthContext) ([]domain.CategoryShare, domain.DataSource, error)
	CategoryRefreshInFlight() bool
}

type statsService struct {
	pipeline         *pipeline
	opts             Options
	categoryInFlight atomic.Int32
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(fetcher upstream.Fetcher, strategy fallback.Strategy, opts Options, logger *zap.Logger) StatsService {
	opts = opts.withDefaults()
	return &statsService{
		pipeline: &pipeline{
			fetcher:  fetcher,
			strategy: strategy,
			mode:     opts.Mode,
			logger:   logger,
		},
		opts: opts,
	}
}

// GetDashboardStats loads products, orders, users and the category
// distribution concurrently and derives the dashboard view model. Unavailable
// resources are replaced by fallback data; only a failure of the aggregation
// itself is returned as an error.
func (s *statsService) GetDashboardStats(ctx context.Context, auth upstream.AuthContext) (*DashboardReport, error) {
	var (
		products      Result[domain.Product]
		orders        Result[domain.Order]
		users         Result[domain.User]
		categories    []domain.Category
		categoryChart []domain.CategoryShare
		categorySrc   domain.DataSource
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("products", func() (err error) {
		products, err = s.GetProducts(gctx, auth, 0, DefaultProductLimit)
		return err
	}))
	g.Go(guard("orders", func() (err error) {
		orders, err = s.GetOrders(gctx, auth, DefaultOrderLimit)
		return err
	}))
	g.Go(guard("users", func() (err error) {
		users, err = s.GetUsers(gctx, auth, DefaultUserLimit)
		return err
	}))
	g.Go(guard("categories", func() error {
		categories = s.GetCategories(gctx)
		return nil
	}))
	g.Go(guard("category distribution", func() (err error) {
		categoryChart, categorySrc, err = s.generateCategoryData(gctx, auth)
		return err
	}))

	if err := g.Wait(); err != nil {
		s.pipeline.logger.Error("Dashboard aggregation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDashboardStats, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDashboardStats, err)
	}

	now := s.opts.Now()
	revenue := s.pipeline.strategy.RevenueSeries()
	revenueSrc := domain.SourceSynthetic
	if s.opts.RevenueFromOrders && orders.Source == domain.SourceLive {
		revenue = MonthlyRevenue(now, orders.Records)
		revenueSrc = domain.SourceLive
	}

	categorySource := domain.SourceStatic
	if len(categories) == 0 {
		categorySource = domain.SourceSynthetic
	}

	report := &DashboardReport{
		Stats: domain.DashboardStats{
			Overview:      CalculateOverview(now, products.Records, orders.Records, users.Records),
			RevenueChart:  revenue,
			CategoryChart: categoryChart,
			RecentOrders:  FormatRecentOrders(orders.Records),
		},
		Sources: map[string]domain.DataSource{
			"products":       products.Source,
			"orders":         orders.Source,
			"users":          users.Source,
			"categories":     categorySource,
			"category_chart": categorySrc,
			"revenue_chart":  revenueSrc,
		},
	}

	s.pipeline.logger.Debug("Dashboard stats assembled",
		zap.String("subject", auth.Subject),
		zap.Any("sources", report.Sources),
	)

	return report, nil
}

// GetProducts lists products. Quantity and stock are always equal on the
// returned records.
func (s *statsService) GetProducts(ctx context.Context, auth upstream.AuthContext, skip, limit int) (Result[domain.Product], error) {
	return load(ctx, s.pipeline, auth, resource[domain.Product]{
		name:   "products",
		path:   upstream.ProductsPath,
		query:  upstream.Page(skip, limit),
		decode: envelope.NormalizeProducts,
		fallback: func() []domain.Product {
			return s.pipeline.strategy.Products(fallbackCount(limit, fallbackProductCount))
		},
		emptyIsFallback: true,
	})
}

// GetOrders lists orders. An empty listing is a real answer.
func (s *statsService) GetOrders(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.Order], error) {
	return load(ctx, s.pipeline, auth, resource[domain.Order]{
		name:  "orders",
		path:  upstream.OrdersPath,
		query: upstream.Limit(limit),
		decode: func(body []byte) ([]domain.Order, error) {
			return envelope.DecodeList[domain.Order]("orders", body)
		},
		fallback: func() []domain.Order {
			return s.pipeline.strategy.Orders(fallbackCount(limit, fallbackOrderCount))
		},
	})
}

// GetUsers lists users. The fallback list has the requested length.
func (s *statsService) GetUsers(ctx context.Context, auth upstream.AuthContext, limit int) (Result[domain.User], error) {
	return load(ctx, s.pipeline, auth, resource[domain.User]{
		name:  "users",
		path:  upstream.UsersPath,
		query: upstream.Page(0, limit),
		decode: func(body []byte) ([]domain.User, error) {
			return envelope.DecodeList[domain.User]("users", body)
		},
		fallback: func() []domain.User {
			return s.pipeline.strategy.Users(max(limit, 0))
		},
		emptyIsFallback: true,
	})
}

// GetUserByID loads a single user. When the user cannot be loaded the
// configured policy decides between a synthetic stand-in carrying id and
// ErrUserNotFound.
func (s *statsService) GetUserByID(ctx context.Context, auth upstream.AuthContext, id int64) (*domain.User, domain.DataSource, error) {
	if s.opts.Mode == ModeSynthetic {
		user := s.pipeline.strategy.User(id)
		return &user, domain.SourceSynthetic, nil
	}

	user, err := s.fetchUser(ctx, auth, id)
	if err == nil {
		return user, domain.SourceLive, nil
	}

	if s.opts.Mode == ModeLive {
		if upstream.IsNotFound(err) {
			return nil, "", fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil, "", fmt.Errorf("failed to load user %d: %w", id, err)
	}

	s.pipeline.logger.Warn("User lookup failed",
		zap.Int64("user_id", id),
		zap.String("policy", string(s.opts.UserNotFound)),
		zap.Error(err),
	)

	if s.opts.UserNotFound == UserNotFoundAbsent {
		return nil, "", fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}

	stub := s.pipeline.strategy.User(id)
	return &stub, domain.SourceSynthetic, nil
}

func (s *statsService) fetchUser(ctx context.Context, auth upstream.AuthContext, id int64) (*domain.User, error) {
	body, err := s.pipeline.fetcher.Fetch(ctx, auth, upstream.UserPath(id), upstream.NoQuery)
	if err != nil {
		return nil, err
	}
	user, err := envelope.DecodeObject[domain.User]("user", body)
	if err != nil {
		return nil, err
	}
	if user.ID != id {
		return nil, &envelope.ShapeError{
			Resource: "user",
			Variant:  envelope.VariantObject,
			Reason:   fmt.Sprintf("got user %d, want %d", user.ID, id),
		}
	}
	return user, nil
}

// GetCategories returns the static taxonomy.
func (s *statsService) GetCategories(ctx context.Context) []domain.Category {
	return domain.StaticCategories()
}

// GenerateCategoryData counts catalog products per category, one filtered
// query each, and converts the counts into percentages. It can be called on
// its own to refresh the chart; only those standalone refreshes are reported
// by CategoryRefreshInFlight.
func (s *statsService) GenerateCategoryData(ctx context.Context, auth upstream.AuthContext) ([]domain.CategoryShare, domain.DataSource, error) {
	s.categoryInFlight.Add(1)
	defer s.categoryInFlight.Add(-1)

	return s.generateCategoryData(ctx, auth)
}

func (s *statsService) generateCategoryData(ctx context.Context, auth upstream.AuthContext) ([]domain.CategoryShare, domain.DataSource, error) {
	defaults := s.pipeline.strategy.CategoryDistribution()
	if s.opts.Mode == ModeSynthetic {
		return defaults, domain.SourceSynthetic, nil
	}

	catalog := domain.CatalogCategories()
	counts := make([]CategoryCount, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range catalog {
		counts[i] = CategoryCount{Name: category.Name}
		g.Go(guard("category "+category.Name, func() error {
			count, err := s.countCategory(gctx, auth, category.CatalogID)
			if err != nil {
				if s.opts.Mode == ModeLive {
					return fmt.Errorf("failed to count category %d: %w", category.CatalogID, err)
				}
				s.pipeline.logger.Warn("Category count failed",
					zap.Int64("category_id", category.CatalogID),
					zap.Error(err),
				)
				return nil
			}
			counts[i].Count = count
			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	shares := CategoryDistribution(counts, defaults)
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return shares, domain.SourceSynthetic, nil
	}
	return shares, domain.SourceLive, nil
}

func (s *statsService) countCategory(ctx context.Context, auth upstream.AuthContext, catalogID int64) (int, error) {
	query := upstream.Page(0, DefaultProductLimit).Filter("category_id", strconv.FormatInt(catalogID, 10))
	body, err := s.pipeline.fetcher.Fetch(ctx, auth, upstream.ProductsPath, query)
	if err != nil {
		return 0, err
	}
	products, err := envelope.NormalizeProducts(body)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// CategoryRefreshInFlight reports whether a category distribution is being
// computed.
func (s *statsService) CategoryRefreshInFlight() bool {
	return s.categoryInFlight.Load() > 0
}
