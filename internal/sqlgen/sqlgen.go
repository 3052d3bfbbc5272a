// Package sqlgen composes the SELECT and INSERT statements the exporter
// runs and writes, from table metadata plus a row cursor.
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/EslamSife/database-exporter/internal/codec"
	"github.com/EslamSife/database-exporter/internal/schema"
)

// BuildSelect composes a SELECT for table export. TOP is only emitted when
// rowLimit > 0; ORDER BY is only emitted when the table's sort strategy
// produces a non-empty clause.
func BuildSelect(metadata schema.TableMetadata, rowLimit int) string {
	var b strings.Builder
	b.WriteString("SELECT ")

	if rowLimit > 0 {
		b.WriteString("TOP ")
		b.WriteString(strconv.Itoa(rowLimit))
		b.WriteString(" ")
	}

	cols := make([]string, len(metadata.Columns))
	for i, c := range metadata.Columns {
		cols[i] = "[" + c.Name + "]"
	}
	b.WriteString(strings.Join(cols, ", "))

	b.WriteString(" FROM ")
	b.WriteString(metadata.FullTableName())

	if clause := metadata.SortStrategy.SortClause(); clause != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(clause)
	}

	return b.String()
}

// RowCursor is the minimal contract BuildInsert needs from a result row: the
// column names and typed values it reports, in cursor order. Binding to the
// cursor's own reported columns (not the metadata's) means a projection
// mismatch can never desynchronize the column list from the values list.
type RowCursor interface {
	ColumnNames() []string
	ColumnTypeCode(index int) schema.SQLTypeCode
	Values() []interface{}
}

// BuildInsert composes a single INSERT statement from the metadata's
// table name and a cursor positioned on the current row.
func BuildInsert(metadata schema.TableMetadata, row RowCursor) string {
	names := row.ColumnNames()
	values := row.Values()

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(metadata.FullTableName())
	b.WriteString(" (")

	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[")
		b.WriteString(n)
		b.WriteString("]")
	}

	b.WriteString(") VALUES (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(codec.Format(v, row.ColumnTypeCode(i)))
	}
	b.WriteString(");")

	return b.String()
}

