// Package querybuilder renders the few SQL shapes the postgres repositories
// need, with $n placeholders for lib/pq.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// params collects positional arguments in placeholder order.
type params []any

func (p *params) next(value any) string {
	*p = append(*p, value)
	return "$" + strconv.Itoa(len(*p))
}

// Condition renders one WHERE term and binds its arguments.
type Condition func(p *params) string

func Gt(column string, value any) Condition {
	return func(p *params) string { return column + " > " + p.next(value) }
}

func IsNotNull(column string) Condition {
	return func(*params) string { return column + " IS NOT NULL" }
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	var p params
	query := "SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table
	if len(b.where) > 0 {
		terms := make([]string, len(b.where))
		for i, cond := range b.where {
			terms[i] = cond(&p)
		}
		query += " WHERE " + strings.Join(terms, " AND ")
	}
	if len(b.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(b.orderBy, ", ")
	}
	return query, p, nil
}

// insert renders a multi-row INSERT followed by suffix, typically an
// ON CONFLICT clause.
func insert(table string, columns []string, rows [][]any, suffix string) (string, []any, error) {
	switch {
	case strings.TrimSpace(table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	p := make(params, 0, len(rows)*len(columns))
	tuples := make([]string, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(columns))
		}
		placeholders := make([]string, len(row))
		for j, value := range row {
			placeholders[j] = p.next(value)
		}
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	query := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(tuples, ", ")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		query += " " + suffix
	}
	return query, p, nil
}
