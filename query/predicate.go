package query

import (
	"fmt"
	"strings"
)

// Field names a queryable item attribute. The value is the attribute's JSON
// name, which is also the name accepted in sort keys.
type Field string

const (
	FieldID                 Field = "id"
	FieldPublicID           Field = "publicId"
	FieldTitle              Field = "title"
	FieldDescription        Field = "description"
	FieldIndustryID         Field = "industryId"
	FieldIndustryName       Field = "industryName"
	FieldCategories         Field = "categories"
	FieldTags               Field = "tags"
	FieldPrice              Field = "price"
	FieldMerchantID         Field = "merchantId"
	FieldRating             Field = "rating"
	FieldComplianceStatus   Field = "complianceStatus"
	FieldAvailabilityStatus Field = "availabilityStatus"
	FieldCreatedOn          Field = "createdOn"
	FieldUpdatedOn          Field = "updatedOn"
)

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpGte
	OpLte
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// MatchMode selects how a text match is anchored.
type MatchMode int

const (
	MatchContains MatchMode = iota
	MatchPrefix
)

func (m MatchMode) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "contains"
}

// Predicate is a node of a filter tree. The set of node types is closed; stores
// translate each of them and Matches evaluates them in memory.
type Predicate interface {
	fmt.Stringer
	isPredicate()
}

// AllPredicate matches every record.
type AllPredicate struct{}

// AndPredicate matches when every clause matches.
type AndPredicate struct {
	Clauses []Predicate
}

// OrPredicate matches when at least one clause matches. An OrPredicate without
// clauses matches nothing.
type OrPredicate struct {
	Clauses []Predicate
}

// ComparePredicate compares a scalar field with Value. Value holds a
// decimal.Decimal for price, float64 for rating, uuid.UUID for identifiers,
// the canonical name string for enums and time.Time for timestamps.
type ComparePredicate struct {
	Field Field
	Op    Op
	Value any
}

// MatchPredicate is a case-insensitive text match.
type MatchPredicate struct {
	Field Field
	Mode  MatchMode
	Text  string
}

// ContainsPredicate matches when the multi-valued Field holds Value exactly.
type ContainsPredicate struct {
	Field Field
	Value string
}

func (AllPredicate) isPredicate()      {}
func (AndPredicate) isPredicate()      {}
func (OrPredicate) isPredicate()       {}
func (ComparePredicate) isPredicate()  {}
func (MatchPredicate) isPredicate()    {}
func (ContainsPredicate) isPredicate() {}

func (AllPredicate) String() string { return "all" }

func (p AndPredicate) String() string { return joinClauses("and", p.Clauses) }

func (p OrPredicate) String() string { return joinClauses("or", p.Clauses) }

func (p ComparePredicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
}

func (p MatchPredicate) String() string {
	return fmt.Sprintf("%s %s %q", p.Field, p.Mode, p.Text)
}

func (p ContainsPredicate) String() string {
	return fmt.Sprintf("%s has %q", p.Field, p.Value)
}

func joinClauses(op string, clauses []Predicate) string {
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

// All returns the predicate matching every record.
func All() Predicate { return AllPredicate{} }

// And combines clauses. AllPredicate clauses are dropped, an empty list yields
// All and a single clause is returned unwrapped.
func And(clauses ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if _, ok := c.(AllPredicate); ok {
			continue
		}
		kept = append(kept, c)
	}
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	default:
		return AndPredicate{Clauses: kept}
	}
}

// Or combines clauses. A single clause is returned unwrapped.
func Or(clauses ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return OrPredicate{Clauses: kept}
}

// Eq builds an equality comparison.
func Eq(field Field, value any) Predicate {
	return ComparePredicate{Field: field, Op: OpEq, Value: value}
}

// Gte builds an inclusive lower bound.
func Gte(field Field, value any) Predicate {
	return ComparePredicate{Field: field, Op: OpGte, Value: value}
}

// Lte builds an inclusive upper bound.
func Lte(field Field, value any) Predicate {
	return ComparePredicate{Field: field, Op: OpLte, Value: value}
}

// Match builds a case-insensitive text match.
func Match(field Field, mode MatchMode, text string) Predicate {
	return MatchPredicate{Field: field, Mode: mode, Text: text}
}

// Contains builds a membership test on a multi-valued field.
func Contains(field Field, value string) Predicate {
	return ContainsPredicate{Field: field, Value: value}
}

// IsAll reports whether p places no constraint.
func IsAll(p Predicate) bool {
	if p == nil {
		return true
	}
	_, ok := p.(AllPredicate)
	return ok
}
