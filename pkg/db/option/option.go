package option

import (
	"fmt"
	"strings"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement. Field names come from code, never
// from request input; values are always bound.
type QueryOption interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(stmt *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(stmt *gorm.DB) *gorm.DB { return f(stmt) }

type Operator string

const (
	EQ  Operator = "="
	GTE Operator = ">="
	LTE Operator = "<="
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

func ApplyOperator(c Condition) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		switch c.Operator {
		case EQ, GTE, LTE:
			return stmt.Where(fmt.Sprintf("%s %s ?", c.Field, c.Operator), c.Value)
		default:
			return stmt
		}
	})
}

// ContainsFold matches term as a case-insensitive substring of any of fields.
func ContainsFold(term string, fields ...string) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(fields) == 0 {
			return stmt
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))
		for _, field := range fields {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", field))
			args = append(args, pattern)
		}
		return stmt.Where("("+strings.Join(clauses, " OR ")+")", args...)
	})
}

func ApplyPagination(page pagination.Page) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		if page.Limit <= 0 {
			return stmt
		}
		return stmt.Limit(page.Limit).Offset(page.Offset())
	})
}

// QuerySortBy orders by an allow-listed column. Tiebreak columns are
// appended after the primary sort.
type QuerySortBy struct {
	SortBy   string
	OrderBy  string
	Allow    map[string]bool
	Default  string
	Tiebreak []string
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{
		SortBy:  strings.TrimSpace(sortBy),
		OrderBy: strings.TrimSpace(orderBy),
		Allow:   allow,
	}
}

func WithSortBy(q QuerySortBy) QueryOption {
	return QueryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		column := q.SortBy
		if column == "" || !q.Allow[column] {
			column = q.Default
		}
		if column == "" {
			column = "created_at"
		}
		direction := "DESC"
		if strings.EqualFold(q.OrderBy, "asc") {
			direction = "ASC"
		}
		stmt = stmt.Order(fmt.Sprintf("%s %s", column, direction))
		for _, tb := range q.Tiebreak {
			stmt = stmt.Order(tb)
		}
		return stmt
	})
}

func Apply(stmt *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		stmt = opt.Apply(stmt)
	}
	return stmt
}
