package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/store"
)

// DefaultBatchLimit bounds how many elements of a batch run at once.
const DefaultBatchLimit = 8

// Service is the catalog service core. It validates input, reads through the
// named caches, delegates persistence to the store and decides which cache
// entries every mutation evicts.
//
// Writes to the same public id are not serialised; the last save wins.
type Service struct {
	store      store.Store
	exec       *store.Executor
	caches     *catalogcache.Caches
	builder    *query.Builder
	now        func() time.Time
	newID      func() uuid.UUID
	batchLimit int
	logger     zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithBuilder replaces the default predicate builder.
func WithBuilder(b *query.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithClock sets the time source used for item timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the public id generator used on create.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithBatchLimit sets how many batch elements run concurrently. Values below
// 1 fall back to DefaultBatchLimit.
func WithBatchLimit(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = DefaultBatchLimit
		}
		s.batchLimit = n
	}
}

// New returns a Service over st and caches.
func New(st store.Store, caches *catalogcache.Caches, opts ...Option) *Service {
	s := &Service{
		store:      st,
		caches:     caches,
		builder:    query.NewBuilder(),
		now:        time.Now,
		newID:      uuid.New,
		batchLimit: DefaultBatchLimit,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.exec = store.NewExecutor(st, store.WithExecutorLogger(s.logger))
	return s
}
