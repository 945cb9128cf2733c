package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Builder constructs SQL SELECT statements for Cloud Spanner with a fluent,
// immutable API. Parameter names are generated automatically so WHERE
// fragments never collide.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	orderByCol   string
	orderByDir   Direction
	limitVal     int64
	offsetVal    int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		table:        table,
		selectCols:   []string{},
		whereClauses: []Condition{},
	}
}

// Select appends columns to retrieve. Pass a model's ReadColumns so the
// column list stays in one place.
func (b *Builder) Select(columns ...string) *Builder {
	next := b.clone()
	next.selectCols = append(next.selectCols, columns...)
	return next
}

// Where adds a condition. Multiple calls are combined with AND.
func (b *Builder) Where(condition Condition) *Builder {
	next := b.clone()
	next.whereClauses = append(next.whereClauses, condition)
	return next
}

// OrderBy specifies the sort column and direction.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	next := b.clone()
	next.orderByCol = column
	next.orderByDir = direction
	return next
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	next := b.clone()
	next.limitVal = limit
	return next
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int64) *Builder {
	next := b.clone()
	next.offsetVal = offset
	return next
}

// Count derives a COUNT(*) query sharing this builder's FROM and WHERE
// clauses. Pagination and ordering are dropped, so list endpoints can reuse
// one builder for both the page and the total.
func (b *Builder) Count() *Builder {
	next := b.clone()
	next.selectCols = []string{"COUNT(*)"}
	next.limitVal = 0
	next.offsetVal = 0
	next.orderByCol = ""
	return next
}

// Build constructs the final spanner.Statement with SQL and parameters.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		fragments := make([]string, 0, len(b.whereClauses))
		paramIndex := 0
		for _, condition := range b.whereClauses {
			fragment, condParams := condition.SQL(paramIndex)
			fragments = append(fragments, fragment)
			for name, value := range condParams {
				params[name] = value
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(strings.Join(fragments, " AND "))
	}

	if b.orderByCol != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderByCol)
		if b.orderByDir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}
	if b.offsetVal > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offsetVal
	}

	return spanner.Statement{
		SQL:    sql.String(),
		Params: params,
	}
}

// clone copies the builder so chained calls never mutate shared state.
func (b *Builder) clone() *Builder {
	next := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		orderByCol:   b.orderByCol,
		orderByDir:   b.orderByDir,
		limitVal:     b.limitVal,
		offsetVal:    b.offsetVal,
	}
	copy(next.selectCols, b.selectCols)
	copy(next.whereClauses, b.whereClauses)
	return next
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
