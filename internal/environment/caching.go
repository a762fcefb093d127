package environment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/qdcloud/internal/constants"
	"github.com/fivetwenty-io/qdcloud/internal/metrics"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// Clock returns the current time. Readings are compared with time.Time.Sub,
// so the default time.Now is monotonic.
type Clock func() time.Time

// CachingEnvironment shares one discovery call among concurrent callers and
// keeps its result for a configurable time.
//
// A call in flight is always joined, whatever its age. A completed result is
// reused while it is younger than the TTL of its kind (success or failure)
// and replaced otherwise.
type CachingEnvironment struct {
	environment qdcloud.Environment
	scope       context.Context
	failureTTL  time.Duration
	successTTL  time.Duration
	clock       Clock
	logger      qdcloud.Logger
	metrics     *metrics.Collector
	slot        atomic.Pointer[flight]
}

var _ qdcloud.Environment = (*CachingEnvironment)(nil)

// Option configures a CachingEnvironment.
type Option func(*CachingEnvironment)

// WithFailureTTL sets how long a failed result is reused. Default 0: the next
// caller after a failure starts a new call.
func WithFailureTTL(ttl time.Duration) Option {
	return func(e *CachingEnvironment) {
		e.failureTTL = ttl
	}
}

// WithSuccessTTL sets how long a successful result is reused. Default: forever.
func WithSuccessTTL(ttl time.Duration) Option {
	return func(e *CachingEnvironment) {
		e.successTTL = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(e *CachingEnvironment) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger qdcloud.Logger) Option {
	return func(e *CachingEnvironment) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records cache decisions on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *CachingEnvironment) {
		e.metrics = collector
	}
}

// RequestOn wraps environment with a single-flight cache. Underlying calls
// run on scope: cancelling it cancels the call in flight and empties the
// cache, while cancelling the context of a single caller only stops that
// caller from waiting.
func RequestOn(scope context.Context, environment qdcloud.Environment, opts ...Option) *CachingEnvironment {
	caching := &CachingEnvironment{
		environment: environment,
		scope:       scope,
		failureTTL:  constants.DefaultFailureCacheTTL,
		successTTL:  constants.DefaultSuccessCacheTTL,
		clock:       time.Now,
		logger:      qdcloud.NoopLogger{},
	}

	for _, opt := range opts {
		opt(caching)
	}

	return caching
}

// flight is one underlying call. Its fields are written once, before done
// is closed.
type flight struct {
	done       chan struct{}
	response   qdcloud.Response[qdcloud.Apis]
	producedAt time.Time
	panicked   bool
	panicValue any
}

func (f *flight) completed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *flight) result() qdcloud.Response[qdcloud.Apis] {
	if f.panicked {
		panic(f.panicValue)
	}

	return f.response
}

// GetApis implements qdcloud.Environment.
func (e *CachingEnvironment) GetApis(ctx context.Context) qdcloud.Response[qdcloud.Apis] {
	for {
		current := e.slot.Load()

		if current == nil {
			candidate := &flight{done: make(chan struct{})}
			if !e.slot.CompareAndSwap(nil, candidate) {
				continue
			}

			e.metrics.RecordDiscovery(metrics.CacheMiss)
			e.logger.Debug("Requesting Qodana Cloud versions", nil)

			go e.run(candidate)

			return e.await(ctx, candidate)
		}

		if !current.completed() {
			e.metrics.RecordDiscovery(metrics.CacheShared)

			return e.await(ctx, current)
		}

		if !current.panicked && e.fresh(current) {
			e.metrics.RecordDiscovery(metrics.CacheHit)

			return current.response
		}

		if e.slot.CompareAndSwap(current, nil) {
			e.metrics.RecordDiscovery(metrics.CacheReset)
			e.logger.Debug("Discarding expired Qodana Cloud versions", map[string]interface{}{
				"success": current.response.IsSuccess(),
				"age":     e.clock().Sub(current.producedAt).String(),
			})
		}
	}
}

func (e *CachingEnvironment) fresh(f *flight) bool {
	elapsed := e.clock().Sub(f.producedAt)

	if f.response.IsSuccess() {
		return elapsed <= e.successTTL
	}

	return elapsed <= e.failureTTL
}

func (e *CachingEnvironment) await(ctx context.Context, f *flight) qdcloud.Response[qdcloud.Apis] {
	select {
	case <-f.done:
		return f.result()
	case <-ctx.Done():
		return qdcloud.Offline[qdcloud.Apis](ctx.Err())
	}
}

func (e *CachingEnvironment) run(f *flight) {
	defer func() {
		if r := recover(); r != nil {
			f.panicked = true
			f.panicValue = r
			e.slot.CompareAndSwap(f, nil)
			close(f.done)
		}
	}()

	response := e.environment.GetApis(e.scope)

	if e.scope.Err() != nil {
		e.slot.CompareAndSwap(f, nil)
		e.logger.Debug("Qodana Cloud versions request cancelled", map[string]interface{}{
			"error": e.scope.Err().Error(),
		})
	}

	f.response = response
	f.producedAt = e.clock()
	close(f.done)
}
