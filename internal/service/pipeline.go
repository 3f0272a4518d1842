package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-admin/internal/domain"
	"shop-admin/internal/fallback"
	"shop-admin/internal/upstream"

	"go.uber.org/zap"
)

// Mode selects which data path the services take.
type Mode string

const (
	// ModeAuto fetches real data and falls back per resource on failure.
	ModeAuto Mode = "auto"
	// ModeLive only uses real data; failures are returned to the caller.
	ModeLive Mode = "live"
	// ModeSynthetic never calls the back office.
	ModeSynthetic Mode = "synthetic"
)

// ParseMode parses a configured mode, defaulting to ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeLive, ModeSynthetic:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown fallback mode %q", s)
}

// UserNotFoundPolicy decides what GetUserByID returns when no real user can
// be loaded.
type UserNotFoundPolicy string

const (
	UserNotFoundSynthetic UserNotFoundPolicy = "synthetic"
	UserNotFoundAbsent    UserNotFoundPolicy = "absent"
)

// ParseUserNotFoundPolicy parses a configured policy, defaulting to synthetic.
func ParseUserNotFoundPolicy(s string) (UserNotFoundPolicy, error) {
	switch UserNotFoundPolicy(s) {
	case "", UserNotFoundSynthetic:
		return UserNotFoundSynthetic, nil
	case UserNotFoundAbsent:
		return UserNotFoundAbsent, nil
	}
	return "", fmt.Errorf("unknown user-not-found policy %q", s)
}

// Options configures the services
type Options struct {
	Mode              Mode
	UserNotFound      UserNotFoundPolicy
	RevenueFromOrders bool
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if o.UserNotFound == "" {
		o.UserNotFound = UserNotFoundSynthetic
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is a list of records with the path that produced it.
type Result[T any] struct {
	Records []T
	Source  domain.DataSource
}

var errNoRecords = errors.New("no records returned")

// resource describes one fetch, normalize, fallback pipeline.
type resource[T any] struct {
	name            string
	path            string
	query           upstream.Query
	decode          func(body []byte) ([]T, error)
	fallback        func() []T
	emptyIsFallback bool
}

// pipeline runs resource pipelines in the configured mode.
type pipeline struct {
	fetcher  upstream.Fetcher
	strategy fallback.Strategy
	mode     Mode
	logger   *zap.Logger
}

func load[T any](ctx context.Context, p *pipeline, auth upstream.AuthContext, r resource[T]) (Result[T], error) {
	if p.mode == ModeSynthetic {
		return Result[T]{Records: r.fallback(), Source: domain.SourceSynthetic}, nil
	}

	records, err := fetchList(ctx, p, auth, r)
	if err == nil {
		return Result[T]{Records: records, Source: domain.SourceLive}, nil
	}

	if p.mode == ModeLive {
		return Result[T]{}, fmt.Errorf("failed to load %s: %w", r.name, err)
	}

	p.logger.Warn("Falling back to synthetic data",
		zap.String("resource", r.name),
		zap.String("path", r.path),
		zap.Error(err),
	)
	return Result[T]{Records: r.fallback(), Source: domain.SourceSynthetic}, nil
}

func fetchList[T any](ctx context.Context, p *pipeline, auth upstream.AuthContext, r resource[T]) ([]T, error) {
	body, err := p.fetcher.Fetch(ctx, auth, r.path, r.query)
	if err != nil {
		return nil, err
	}

	records, err := r.decode(body)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 && r.emptyIsFallback {
		return nil, errNoRecords
	}
	return records, nil
}

// guard converts a panic inside an aggregation task into an error.
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: panic: %v", name, r)
			}
		}()
		return fn()
	}
}

// fallbackCount caps the number of synthetic records at ceiling.
func fallbackCount(limit, ceiling int) int {
	return max(0, min(limit, ceiling))
}
