package donor

import (
	"fmt"
	"strings"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/uptrace/bun"
)

// FilterClause is one predicate of an advanced filter specification.
type FilterClause struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ApplyFilters translates filter clauses into WHERE conditions on the
// query. Clauses combine with AND; zero clauses match everything.
// Unknown operators fall back to exact equality so future operators
// degrade instead of rejecting the request. Unknown fields and string
// operators on non-text fields are rejected before any SQL is built.
func ApplyFilters(q *bun.SelectQuery, clauses []FilterClause) (*bun.SelectQuery, error) {
	for _, clause := range clauses {
		var err error
		q, err = applyClause(q, clause)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

func applyClause(q *bun.SelectQuery, c FilterClause) (*bun.SelectQuery, error) {
	if !baseFields[c.Field] {
		return nil, apperr.Validationf("cannot filter by field %q", c.Field)
	}
	switch c.Operator {
	case "contains", "not_contains", "starts_with", "ends_with", "is_empty", "is_not_empty":
		if !textFields[c.Field] {
			return nil, apperr.Validationf("operator %q only applies to text fields, not %q", c.Operator, c.Field)
		}
	}

	field := bun.Ident(c.Field)

	switch c.Operator {
	case "equals", "is":
		return q.Where("? = ?", field, c.Value), nil

	case "not_equals", "is_not":
		return q.Where("(? IS NULL OR ? <> ?)", field, field, c.Value), nil

	case "contains":
		return q.Where("LOWER(?) LIKE ?", field, pattern("%", c.Value, "%")), nil

	case "not_contains":
		return q.Where("(? IS NULL OR LOWER(?) NOT LIKE ?)", field, field, pattern("%", c.Value, "%")), nil

	case "starts_with":
		return q.Where("LOWER(?) LIKE ?", field, pattern("", c.Value, "%")), nil

	case "ends_with":
		return q.Where("LOWER(?) LIKE ?", field, pattern("%", c.Value, "")), nil

	case "greater_than":
		return q.Where("? > ?", field, c.Value), nil

	case "greater_than_or_equal":
		return q.Where("? >= ?", field, c.Value), nil

	case "less_than":
		return q.Where("? < ?", field, c.Value), nil

	case "less_than_or_equal":
		return q.Where("? <= ?", field, c.Value), nil

	case "is_empty":
		return q.Where("(? IS NULL OR ? = '')", field, field), nil

	case "is_not_empty":
		return q.Where("(? IS NOT NULL AND ? <> '')", field, field), nil

	case "in":
		return q.Where("? IN (?)", field, bun.In(toSet(c.Value))), nil

	case "not_in":
		return q.Where("? NOT IN (?)", field, bun.In(toSet(c.Value))), nil

	default:
		return q.Where("? = ?", field, c.Value), nil
	}
}

func pattern(prefix string, value any, suffix string) string {
	return prefix + strings.ToLower(fmt.Sprintf("%v", value)) + suffix
}

// toSet treats a single value as a one-element set.
func toSet(value any) []any {
	if set, ok := value.([]any); ok {
		return set
	}
	return []any{value}
}
