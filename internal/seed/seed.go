// Package seed fills an empty catalog with generated sample items for
// development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/service"
)

// DefaultCount is the number of items generated when Config.Count is 0.
const DefaultCount = 50

var (
	sampleCategories = []string{
		"Electronics", "Clothing", "Home & Garden", "Sports", "Beauty",
		"Books", "Toys", "Automotive", "Health", "Food & Beverage",
	}
	sampleTags = []string{
		"new", "sale", "trending", "popular", "limited",
		"exclusive", "featured", "premium", "budget", "eco-friendly",
	}
	sampleIndustries = []string{
		"Technology", "Fashion", "Home Improvement", "Sports & Recreation",
		"Health & Beauty", "Publishing", "Entertainment", "Automotive",
		"Healthcare", "Food & Beverage", "Education", "Finance",
	}
)

// Counter reports how many items are stored.
type Counter interface {
	Count(ctx context.Context, p query.Predicate) (int64, error)
}

// Creator creates items in bulk.
type Creator interface {
	CreateBatch(ctx context.Context, drafts []catalog.Draft) []service.BatchResult
}

// Seeder generates sample items.
type Seeder struct {
	counter Counter
	creator Creator
	count   int
	rnd     *rand.Rand
	logger  zerolog.Logger
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithCount sets how many items Run creates. Values below 1 keep DefaultCount.
func WithCount(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithRand makes generation deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Seeder) {
		if r != nil {
			s.rnd = r
		}
	}
}

// WithLogger sets the seeder logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Seeder) {
		s.logger = logger
	}
}

// New returns a Seeder counting through counter and creating through creator.
func New(counter Counter, creator Creator, opts ...Option) *Seeder {
	s := &Seeder{
		counter: counter,
		creator: creator,
		count:   DefaultCount,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run creates the sample items unless the catalog already holds items. It
// returns the number of items created.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	existing, err := s.counter.Count(ctx, query.All())
	if err != nil {
		return 0, fmt.Errorf("seed: count items: %w", err)
	}
	if existing > 0 {
		s.logger.Info().Int64("existing", existing).Msg("catalog already populated, skipping seed")
		return 0, nil
	}

	s.logger.Info().Int("count", s.count).Msg("generating sample catalog items")
	drafts := make([]catalog.Draft, s.count)
	for i := range drafts {
		drafts[i] = s.Draft(i)
	}

	var errs []error
	created := 0
	for _, r := range s.creator.CreateBatch(ctx, drafts) {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", r.Index+1, r.Err))
			continue
		}
		created++
	}
	if len(errs) > 0 {
		return created, fmt.Errorf("seed: %w", errors.Join(errs...))
	}

	s.logger.Info().Int("created", created).Msg("sample data initialization completed")
	return created, nil
}

// Draft builds the sample draft at index i.
func (s *Seeder) Draft(i int) catalog.Draft {
	industry := sampleIndustries[s.rnd.IntN(len(sampleIndustries))]
	price := decimal.NewFromInt(int64(10 + s.rnd.IntN(991)))
	rating := math.Round((1+s.rnd.Float64()*4)*10) / 10

	compliance := catalog.Compliant
	if s.rnd.IntN(2) == 1 {
		compliance = catalog.NonCompliant
	}
	availability := catalog.Available
	if s.rnd.IntN(2) == 1 {
		availability = catalog.Unavailable
	}

	return catalog.Draft{
		Title: fmt.Sprintf("Sample Catalog Item %d", i+1),
		Description: fmt.Sprintf("This is a sample description for catalog item %d. "+
			"It contains detailed information about the product or service.", i+1),
		IndustryID:         IndustryID(industry),
		IndustryName:       industry,
		Categories:         s.pick(sampleCategories, 1, 3),
		Tags:               s.pick(sampleTags, 2, 5),
		Price:              &price,
		MerchantID:         uuid.New(),
		Rating:             rating,
		ComplianceStatus:   compliance,
		AvailabilityStatus: availability,
	}
}

// IndustryID derives a stable id from an industry name so generated items of
// the same industry share it.
func IndustryID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("catalog.industry."+name))
}

// pick draws between lo and hi values from pool, dropping repeats.
func (s *Seeder) pick(pool []string, lo, hi int) []string {
	n := lo + s.rnd.IntN(hi-lo+1)
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := pool[s.rnd.IntN(len(pool))]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
