package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortKey orders results by one field.
type SortKey struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

func (k SortKey) String() string { return string(k.Field) + " " + string(k.Direction) }

// Ascending and Descending build sort keys.
func Ascending(f Field) SortKey  { return SortKey{Field: f, Direction: Asc} }
func Descending(f Field) SortKey { return SortKey{Field: f, Direction: Desc} }

var sortableFields = []Field{
	FieldTitle,
	FieldDescription,
	FieldIndustryName,
	FieldPrice,
	FieldRating,
	FieldComplianceStatus,
	FieldAvailabilityStatus,
	FieldCreatedOn,
	FieldUpdatedOn,
}

// sortAliases maps lower-cased camelCase and snake_case spellings to fields.
var sortAliases = func() map[string]Field {
	m := make(map[string]Field, len(sortableFields)*2)
	for _, f := range sortableFields {
		m[strings.ToLower(string(f))] = f
		m[snakeCase(string(f))] = f
	}
	return m
}()

// SortableFields lists the fields accepted in sort keys.
func SortableFields() []Field {
	return slices.Clone(sortableFields)
}

// ResolveSortField maps a field name, in camelCase or snake_case and any letter
// case, to a sortable Field.
func ResolveSortField(name string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := sortAliases[key]; ok {
		return f, nil
	}
	return "", catalog.NewValidationError("sort", fmt.Sprintf("unknown sort field %q", name))
}

// ParseDirection accepts asc/desc and ascending/descending in any letter case.
// Blank input means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", catalog.NewValidationError("sort", fmt.Sprintf("unknown sort direction %q", s))
}

// ParseSort builds sort keys from a comma separated field list sharing one
// direction, e.g. ParseSort("price,title", "desc"). Blank fields yield no keys.
func ParseSort(fields, direction string) ([]SortKey, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	var keys []SortKey
	for _, name := range strings.Split(fields, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ResolveSortField(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, SortKey{Field: f, Direction: dir})
	}
	return keys, nil
}

// NormalizeSort validates keys and appends the internal key ascending as the
// final tie-breaker. With no keys the result orders by internal key only.
func NormalizeSort(keys []SortKey) ([]SortKey, error) {
	out := make([]SortKey, 0, len(keys)+1)
	for _, k := range keys {
		f, err := ResolveSortField(string(k.Field))
		if err != nil {
			return nil, err
		}
		dir, err := ParseDirection(string(k.Direction))
		if err != nil {
			return nil, err
		}
		out = append(out, SortKey{Field: f, Direction: dir})
	}
	return append(out, Ascending(FieldID)), nil
}

// SortItems stable sorts items in place by keys, which must already be
// normalised.
func SortItems(items []catalog.Item, keys []SortKey) {
	slices.SortStableFunc(items, func(a, b catalog.Item) int {
		return CompareItems(a, b, keys)
	})
}

// CompareItems orders a and b by keys.
func CompareItems(a, b catalog.Item, keys []SortKey) int {
	for _, k := range keys {
		c := compareField(k.Field, a, b)
		if k.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareField(f Field, a, b catalog.Item) int {
	switch f {
	case FieldID:
		return cmp.Compare(a.ID, b.ID)
	case FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case FieldDescription:
		return strings.Compare(a.Description, b.Description)
	case FieldIndustryName:
		return strings.Compare(a.IndustryName, b.IndustryName)
	case FieldPrice:
		return a.Price.Cmp(b.Price)
	case FieldRating:
		return cmp.Compare(a.Rating, b.Rating)
	case FieldComplianceStatus:
		return strings.Compare(string(a.ComplianceStatus), string(b.ComplianceStatus))
	case FieldAvailabilityStatus:
		return strings.Compare(string(a.AvailabilityStatus), string(b.AvailabilityStatus))
	case FieldCreatedOn:
		return a.CreatedOn.Compare(b.CreatedOn)
	case FieldUpdatedOn:
		return a.UpdatedOn.Compare(b.UpdatedOn)
	}
	return 0
}

// snakeCase converts a camelCase identifier to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
