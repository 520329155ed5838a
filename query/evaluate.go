package query

import (
	"cmp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Matches evaluates p against item in memory. Text matches fold case, Contains
// is exact and comparisons with a value of the wrong type never match.
func Matches(p Predicate, item catalog.Item) bool {
	switch n := p.(type) {
	case nil, AllPredicate:
		return true
	case AndPredicate:
		for _, c := range n.Clauses {
			if !Matches(c, item) {
				return false
			}
		}
		return true
	case OrPredicate:
		for _, c := range n.Clauses {
			if Matches(c, item) {
				return true
			}
		}
		return false
	case MatchPredicate:
		return matchText(n, item)
	case ContainsPredicate:
		switch n.Field {
		case FieldCategories:
			return item.HasCategory(n.Value)
		case FieldTags:
			return item.HasTag(n.Value)
		}
		return false
	case ComparePredicate:
		return compare(n, item)
	default:
		return false
	}
}

// Filter returns the items of items matched by p, preserving order.
func Filter(p Predicate, items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if Matches(p, it) {
			out = append(out, it)
		}
	}
	return out
}

func matchText(p MatchPredicate, item catalog.Item) bool {
	value, ok := textValue(p.Field, item)
	if !ok {
		return false
	}
	value = strings.ToLower(value)
	needle := strings.ToLower(p.Text)
	if p.Mode == MatchPrefix {
		return strings.HasPrefix(value, needle)
	}
	return strings.Contains(value, needle)
}

func textValue(f Field, item catalog.Item) (string, bool) {
	switch f {
	case FieldTitle:
		return item.Title, true
	case FieldDescription:
		return item.Description, true
	case FieldIndustryName:
		return item.IndustryName, true
	case FieldComplianceStatus:
		return item.ComplianceStatus.String(), true
	case FieldAvailabilityStatus:
		return item.AvailabilityStatus.String(), true
	}
	return "", false
}

func compare(p ComparePredicate, item catalog.Item) bool {
	var c int
	switch p.Field {
	case FieldPrice:
		want, ok := p.Value.(decimal.Decimal)
		if !ok {
			return false
		}
		c = item.Price.Cmp(want)
	case FieldRating:
		want, ok := p.Value.(float64)
		if !ok {
			return false
		}
		c = cmp.Compare(item.Rating, want)
	case FieldID:
		want, ok := p.Value.(int64)
		if !ok {
			return false
		}
		c = cmp.Compare(item.ID, want)
	case FieldPublicID, FieldIndustryID, FieldMerchantID:
		want, ok := p.Value.(uuid.UUID)
		if !ok || p.Op != OpEq {
			return false
		}
		return idValue(p.Field, item) == want
	case FieldCreatedOn, FieldUpdatedOn:
		want, ok := p.Value.(time.Time)
		if !ok {
			return false
		}
		c = item.CreatedOn.Compare(want)
		if p.Field == FieldUpdatedOn {
			c = item.UpdatedOn.Compare(want)
		}
	default:
		want, ok := p.Value.(string)
		if !ok {
			return false
		}
		got, ok := textValue(p.Field, item)
		if !ok {
			return false
		}
		c = strings.Compare(got, want)
	}

	switch p.Op {
	case OpEq:
		return c == 0
	case OpGte:
		return c >= 0
	case OpLte:
		return c <= 0
	}
	return false
}

func idValue(f Field, item catalog.Item) uuid.UUID {
	switch f {
	case FieldPublicID:
		return item.PublicID
	case FieldIndustryID:
		return item.IndustryID
	default:
		return item.MerchantID
	}
}
