package query

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultShortTextThreshold is the description length, in runes, at or below
// which a description filter is matched as a prefix.
const DefaultShortTextThreshold = 3

const wildcard = "*"

// Builder turns Criteria into a Predicate.
//
// Description filters of ShortTextThreshold runes or fewer are matched as a
// prefix even without a trailing "*". This is a performance policy with a known
// limitation: "ump" will not match "pump" in a description. Set the threshold
// to 0 to disable it.
type Builder struct {
	ShortTextThreshold int
	logger             zerolog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithShortTextThreshold overrides DefaultShortTextThreshold. Values below 0
// are treated as 0.
func WithShortTextThreshold(n int) BuilderOption {
	return func(b *Builder) {
		if n < 0 {
			n = 0
		}
		b.ShortTextThreshold = n
	}
}

// WithBuilderLogger sets the logger used to trace built predicates.
func WithBuilderLogger(logger zerolog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder returns a Builder with the default short text threshold.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		ShortTextThreshold: DefaultShortTextThreshold,
		logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns one predicate for c. Empty criteria yield All; otherwise every
// populated field contributes one clause and the clauses are AND-joined.
func (b *Builder) Build(c Criteria) Predicate {
	var clauses []Predicate

	if p, ok := b.text(FieldTitle, c.Title, false); ok {
		clauses = append(clauses, p)
	}
	if p, ok := b.text(FieldDescription, c.Description, true); ok {
		clauses = append(clauses, p)
	}
	if p, ok := b.text(FieldIndustryName, c.IndustryName, false); ok {
		clauses = append(clauses, p)
	}

	if c.IndustryID != nil {
		clauses = append(clauses, Eq(FieldIndustryID, *c.IndustryID))
	}
	if c.MerchantID != nil {
		clauses = append(clauses, Eq(FieldMerchantID, *c.MerchantID))
	}

	if p, ok := anyOf(FieldCategories, c.Categories); ok {
		clauses = append(clauses, p)
	}
	if p, ok := anyOf(FieldTags, c.Tags); ok {
		clauses = append(clauses, p)
	}

	if c.MinPrice != nil {
		clauses = append(clauses, Gte(FieldPrice, *c.MinPrice))
	}
	if c.MaxPrice != nil {
		clauses = append(clauses, Lte(FieldPrice, *c.MaxPrice))
	}
	if c.MinRating != nil {
		clauses = append(clauses, Gte(FieldRating, *c.MinRating))
	}
	if c.MaxRating != nil {
		clauses = append(clauses, Lte(FieldRating, *c.MaxRating))
	}

	if c.ComplianceStatus != nil {
		clauses = append(clauses, Eq(FieldComplianceStatus, c.ComplianceStatus.String()))
	}
	if c.AvailabilityStatus != nil {
		clauses = append(clauses, Eq(FieldAvailabilityStatus, c.AvailabilityStatus.String()))
	}

	p := And(clauses...)
	b.logger.Debug().Stringer("predicate", p).Int("clauses", len(clauses)).Msg("built filter predicate")
	return p
}

// text applies the wildcard rule to a text filter. A value ending in "*" and
// not starting with it is a prefix match; anything else is a substring match.
// Markers are removed from the searched text either way.
func (b *Builder) text(field Field, value *string, shortPrefix bool) (Predicate, bool) {
	if value == nil {
		return nil, false
	}

	raw := strings.TrimSpace(*value)
	text := strings.TrimSpace(strings.ReplaceAll(raw, wildcard, ""))
	if text == "" {
		return nil, false
	}

	mode := MatchContains
	if strings.HasSuffix(raw, wildcard) && !strings.HasPrefix(raw, wildcard) {
		mode = MatchPrefix
	}
	if shortPrefix && b.ShortTextThreshold > 0 && utf8.RuneCountInString(text) <= b.ShortTextThreshold {
		mode = MatchPrefix
	}

	return Match(field, mode, text), true
}

// anyOf ORs one Contains clause per non-blank value.
func anyOf(field Field, values []string) (Predicate, bool) {
	var clauses []Predicate
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		clauses = append(clauses, Contains(field, v))
	}
	if len(clauses) == 0 {
		return nil, false
	}
	return Or(clauses...), true
}
