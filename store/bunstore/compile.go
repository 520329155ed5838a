package bunstore

import (
	"encoding/json"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-catalog-cache/query"
)

var columns = map[query.Field]string{
	query.FieldID:                 "id",
	query.FieldPublicID:           "public_id",
	query.FieldTitle:              "title",
	query.FieldDescription:        "description",
	query.FieldIndustryID:         "industry_id",
	query.FieldIndustryName:       "industry_name",
	query.FieldCategories:         "categories",
	query.FieldTags:               "tags",
	query.FieldPrice:              "price",
	query.FieldMerchantID:         "merchant_id",
	query.FieldRating:             "rating",
	query.FieldComplianceStatus:   "compliance_status",
	query.FieldAvailabilityStatus: "availability_status",
	query.FieldCreatedOn:          "created_on",
	query.FieldUpdatedOn:          "updated_on",
}

func column(f query.Field) (string, error) {
	c, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("bunstore: no column for field %q", f)
	}
	return tableAlias + "." + c, nil
}

// compiler renders a predicate tree as a WHERE fragment with bun "?"
// placeholders.
type compiler struct {
	dialect dialect.Name
	sb      strings.Builder
	args    []any
}

// compileWhere renders p for the given dialect. An empty fragment means no
// filter.
func compileWhere(p query.Predicate, name dialect.Name) (string, []any, error) {
	if query.IsAll(p) {
		return "", nil, nil
	}
	c := &compiler{dialect: name}
	if err := c.node(p); err != nil {
		return "", nil, err
	}
	return c.sb.String(), c.args, nil
}

func (c *compiler) node(p query.Predicate) error {
	switch n := p.(type) {
	case query.AllPredicate:
		c.sb.WriteString("1 = 1")
	case query.AndPredicate:
		return c.group(" AND ", n.Clauses)
	case query.OrPredicate:
		if len(n.Clauses) == 0 {
			c.sb.WriteString(compiledEmptyMatch)
			return nil
		}
		return c.group(" OR ", n.Clauses)
	case query.ComparePredicate:
		return c.compare(n)
	case query.MatchPredicate:
		return c.match(n)
	case query.ContainsPredicate:
		return c.contains(n)
	default:
		return fmt.Errorf("bunstore: unsupported predicate %T", p)
	}
	return nil
}

func (c *compiler) group(sep string, clauses []query.Predicate) error {
	c.sb.WriteByte('(')
	for i, clause := range clauses {
		if i > 0 {
			c.sb.WriteString(sep)
		}
		if err := c.node(clause); err != nil {
			return err
		}
	}
	c.sb.WriteByte(')')
	return nil
}

func (c *compiler) compare(n query.ComparePredicate) error {
	col, err := column(n.Field)
	if err != nil {
		return err
	}
	fmt.Fprintf(&c.sb, "%s %s ?", col, n.Op)
	c.args = append(c.args, n.Value)
	return nil
}

func (c *compiler) match(n query.MatchPredicate) error {
	col, err := column(n.Field)
	if err != nil {
		return err
	}
	pattern := escapeLike(strings.ToLower(n.Text))
	if n.Mode == query.MatchPrefix {
		pattern += "%"
	} else {
		pattern = "%" + pattern + "%"
	}
	fmt.Fprintf(&c.sb, "LOWER(%s) LIKE ? ESCAPE '%s'", col, likeEscape)
	c.args = append(c.args, pattern)
	return nil
}

func (c *compiler) contains(n query.ContainsPredicate) error {
	col, err := column(n.Field)
	if err != nil {
		return err
	}
	if c.dialect == dialect.PG {
		doc, err := json.Marshal([]string{n.Value})
		if err != nil {
			return err
		}
		fmt.Fprintf(&c.sb, "%s @> CAST(? AS jsonb)", col)
		c.args = append(c.args, string(doc))
		return nil
	}
	fmt.Fprintf(&c.sb, "EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", col)
	c.args = append(c.args, n.Value)
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// whereCriteria compiles p into select criteria.
func whereCriteria(p query.Predicate, name dialect.Name) (repository.SelectCriteria, error) {
	where, args, err := compileWhere(p, name)
	if err != nil {
		return nil, err
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if where == "" {
			return q
		}
		return q.Where(where, args...)
	}, nil
}

// orderCriteria applies normalised sort keys.
func orderCriteria(keys []query.SortKey) (repository.SelectCriteria, error) {
	exprs := make([]string, 0, len(keys))
	for _, k := range keys {
		col, err := column(k.Field)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, col+" "+string(k.Direction))
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, e := range exprs {
			q = q.OrderExpr(e)
		}
		return q
	}, nil
}

func pageCriteria(spec query.PageSpec) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(spec.Size).Offset(spec.Offset())
	}
}

func apply(q *bun.SelectQuery, criteria ...repository.SelectCriteria) *bun.SelectQuery {
	for _, c := range criteria {
		q = c(q)
	}
	return q
}
