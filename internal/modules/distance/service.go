// README: Distance resolver: mapping provider first, pincode coordinates as fallback. Never fails.
package distance

import (
	"context"
	"fmt"
	"math"
	"time"

	"freightquote/internal/reqctx"
	"freightquote/internal/types"
)

// Provider is the remote mapping service (driving distance between two pincodes).
type Provider interface {
	Distance(ctx context.Context, origin, destination string) (meters int, text string, err error)
}

// Cache stores primary-path estimates per pincode pair.
type Cache interface {
	Get(ctx context.Context, origin, destination types.Pincode) (Estimate, bool, error)
	Set(ctx context.Context, origin, destination types.Pincode, e Estimate) error
}

type Service struct {
	provider Provider
	cache    Cache
	table    *PincodeTable
	timeout  time.Duration
}

// NewService builds a resolver. provider and cache may be nil; without a
// provider every estimate comes from the pincode table.
func NewService(provider Provider, cache Cache, table *PincodeTable, timeout time.Duration) *Service {
	return &Service{provider: provider, cache: cache, table: table, timeout: timeout}
}

// Resolve makes a single attempt against the provider and falls back to the
// pincode table on any failure.
func (s *Service) Resolve(ctx context.Context, origin, destination types.Pincode) Estimate {
	scope := reqctx.From(ctx)
	defer scope.Time("distance")()

	if s.provider != nil {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		if e, ok := s.cached(callCtx, origin, destination); ok {
			return e
		}
		e, err := s.primary(callCtx, origin, destination)
		if err == nil {
			s.store(callCtx, origin, destination, e)
			return e
		}
		scope.Logf("distance provider failed for %s→%s, using pincode coordinates: %v", origin, destination, err)
	}
	return s.fallback(scope, origin, destination)
}

func (s *Service) primary(ctx context.Context, origin, destination types.Pincode) (Estimate, error) {
	meters, text, err := s.provider.Distance(ctx, origin.String(), destination.String())
	if err != nil {
		return Estimate{}, err
	}
	if meters < 0 || text == "" {
		return Estimate{}, fmt.Errorf("malformed provider response: meters=%d text=%q", meters, text)
	}
	return Estimate{DistanceText: text, EstimatedDays: transitDays(meters)}, nil
}

func (s *Service) fallback(scope *reqctx.Scope, origin, destination types.Pincode) Estimate {
	from, okFrom := s.table.Lookup(origin)
	to, okTo := s.table.Lookup(destination)
	if !okFrom || !okTo {
		scope.Logf("pincode coordinates not found for %s or %s", origin, destination)
		return unknownRoute
	}
	km := haversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
	return Estimate{
		DistanceText:  fmt.Sprintf("%d km", int(math.Round(km))),
		EstimatedDays: fallbackDays(km),
	}
}

func (s *Service) cached(ctx context.Context, origin, destination types.Pincode) (Estimate, bool) {
	if s.cache == nil {
		return Estimate{}, false
	}
	e, ok, err := s.cache.Get(ctx, origin, destination)
	if err != nil {
		reqctx.From(ctx).Logf("distance cache read %s→%s: %v", origin, destination, err)
		return Estimate{}, false
	}
	return e, ok
}

func (s *Service) store(ctx context.Context, origin, destination types.Pincode, e Estimate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, origin, destination, e); err != nil {
		reqctx.From(ctx).Logf("distance cache write %s→%s: %v", origin, destination, err)
	}
}
