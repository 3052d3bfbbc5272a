// Package catalog implements the bulk schema introspector (spec §4.6): four
// fixed catalog queries that recover the full table/column/PK/FK/row-count
// picture of a schema, instead of one metadata round trip per table.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/EslamSife/database-exporter/internal/schema"
)

// Tables whose names start with systemTablePrefixes are excluded from discovery unless includeSystemTables
// is set, mirroring the extra filters the original SchemaAnalyzer applied
// on top of INFORMATION_SCHEMA.TABLES.
var systemTablePrefixes = []string{"sys", "msreplication", "spt_", "__"}

// BulkMetadata is the name-keyed result of the four catalog queries.
// Missing entries default to empty lists / -1, never to nil-vs-empty
// ambiguity for callers.
type BulkMetadata struct {
	PrimaryKeys map[string][]string
	ForeignKeys map[string][]schema.ForeignKeyInfo
	Columns     map[string][]schema.ColumnInfo
	RowCounts   map[string]int64
}

func newBulkMetadata() BulkMetadata {
	return BulkMetadata{
		PrimaryKeys: make(map[string][]string),
		ForeignKeys: make(map[string][]schema.ForeignKeyInfo),
		Columns:     make(map[string][]schema.ColumnInfo),
		RowCounts:   make(map[string]int64),
	}
}

func (m BulkMetadata) PrimaryKeysFor(table string) []string {
	if v, ok := m.PrimaryKeys[table]; ok {
		return v
	}
	return nil
}

func (m BulkMetadata) ForeignKeysFor(table string) []schema.ForeignKeyInfo {
	if v, ok := m.ForeignKeys[table]; ok {
		return v
	}
	return nil
}

func (m BulkMetadata) ColumnsFor(table string) []schema.ColumnInfo {
	if v, ok := m.Columns[table]; ok {
		return v
	}
	return nil
}

func (m BulkMetadata) RowCountFor(table string) int64 {
	if v, ok := m.RowCounts[table]; ok {
		return v
	}
	return -1
}

// DiscoverTables lists base tables in schemaName, applying the system-table
// exclusion unless includeSystemTables is set.
func DiscoverTables(ctx context.Context, db *sql.DB, schemaName string, includeSystemTables bool) ([]string, error) {
	rows, err := db.QueryContext(ctx, tablesQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		if !includeSystemTables && isSystemTable(name) {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func isSystemTable(name string) bool {
	if strings.Contains(name, "$") {
		return true
	}
	for _, p := range systemTablePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ExtractAll runs the four bulk catalog queries and assembles BulkMetadata.
// This is the dominant win over per-table introspection: four round trips
// regardless of table count.
func ExtractAll(ctx context.Context, db *sql.DB, schemaName string) (BulkMetadata, error) {
	result := newBulkMetadata()

	if err := extractPrimaryKeys(ctx, db, schemaName, result.PrimaryKeys); err != nil {
		return BulkMetadata{}, fmt.Errorf("extract primary keys: %w", err)
	}
	if err := extractForeignKeys(ctx, db, schemaName, result.ForeignKeys); err != nil {
		return BulkMetadata{}, fmt.Errorf("extract foreign keys: %w", err)
	}
	if err := extractColumns(ctx, db, schemaName, result.Columns); err != nil {
		return BulkMetadata{}, fmt.Errorf("extract columns: %w", err)
	}
	if err := extractRowCounts(ctx, db, schemaName, result.RowCounts); err != nil {
		return BulkMetadata{}, fmt.Errorf("extract row counts: %w", err)
	}

	return result, nil
}

func extractPrimaryKeys(ctx context.Context, db *sql.DB, schemaName string, out map[string][]string) error {
	rows, err := db.QueryContext(ctx, primaryKeysQuery, schemaName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table, column string
		var ordinal int
		if err := rows.Scan(&table, &column, &ordinal); err != nil {
			return err
		}
		out[table] = append(out[table], column)
	}
	return rows.Err()
}

func extractForeignKeys(ctx context.Context, db *sql.DB, schemaName string, out map[string][]schema.ForeignKeyInfo) error {
	rows, err := db.QueryContext(ctx, foreignKeysQuery, schemaName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var fkName, table, column, refSchema, refTable, refColumn string
		var keySeq int
		if err := rows.Scan(&fkName, &table, &column, &refSchema, &refTable, &refColumn, &keySeq); err != nil {
			return err
		}
		out[table] = append(out[table], schema.ForeignKeyInfo{
			ConstraintName:   fkName,
			LocalColumn:      column,
			ReferencedSchema: refSchema,
			ReferencedTable:  refTable,
			ReferencedColumn: refColumn,
			KeySequence:      keySeq,
		})
	}
	return rows.Err()
}

func extractColumns(ctx context.Context, db *sql.DB, schemaName string, out map[string][]schema.ColumnInfo) error {
	rows, err := db.QueryContext(ctx, columnsQuery, schemaName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table, column, dataType, isNullable, isAutoIncrement string
		var size sql.NullInt64
		var ordinal int
		if err := rows.Scan(&table, &column, &dataType, &size, &isNullable, &ordinal, &isAutoIncrement); err != nil {
			return err
		}
		out[table] = append(out[table], schema.ColumnInfo{
			Name:          column,
			SQLTypeCode:   MapDataType(dataType),
			TypeName:      dataType,
			Size:          int(size.Int64),
			Nullable:      strings.EqualFold(isNullable, "YES"),
			AutoIncrement: strings.EqualFold(isAutoIncrement, "YES"),
			Ordinal:       ordinal,
		})
	}
	return rows.Err()
}

func extractRowCounts(ctx context.Context, db *sql.DB, schemaName string, out map[string]int64) error {
	rows, err := db.QueryContext(ctx, rowCountsQuery, schemaName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var table string
		var count int64
		if err := rows.Scan(&table, &count); err != nil {
			return err
		}
		out[table] = count
	}
	return rows.Err()
}

// MapDataType translates a SQL Server INFORMATION_SCHEMA.DATA_TYPE name to
// the closed SQLTypeCode set the codec dispatches on.
func MapDataType(dataType string) schema.SQLTypeCode {
	switch strings.ToLower(dataType) {
	case "varchar", "char":
		return schema.TypeVarChar
	case "nvarchar", "nchar":
		return schema.TypeNVarChar
	case "text":
		return schema.TypeLongText
	case "ntext":
		return schema.TypeNCLOB
	case "int":
		return schema.TypeInteger
	case "bigint":
		return schema.TypeBigInt
	case "smallint":
		return schema.TypeSmallInt
	case "tinyint":
		return schema.TypeTinyInt
	case "bit":
		return schema.TypeBit
	case "decimal", "numeric":
		return schema.TypeDecimal
	case "money", "smallmoney":
		return schema.TypeNumeric
	case "float":
		return schema.TypeFloat
	case "real":
		return schema.TypeReal
	case "date":
		return schema.TypeDate
	case "time":
		return schema.TypeTime
	case "datetime", "datetime2", "smalldatetime":
		return schema.TypeTimestamp
	case "datetimeoffset":
		return schema.TypeTimestampWithTimezone
	case "binary", "varbinary":
		return schema.TypeVarBinary
	case "image":
		return schema.TypeLongVarBinary
	case "uniqueidentifier":
		return schema.TypeChar
	default:
		return schema.TypeOther
	}
}

// BuildTableMetadata assembles TableMetadata for each discovered table in
// discovery order, attaching the resolved sort strategy.
func BuildTableMetadata(tables []string, schemaName string, bulk BulkMetadata, resolveSort func(name string, pk []string, cols []schema.ColumnInfo) schema.SortStrategy) []schema.TableMetadata {
	result := make([]schema.TableMetadata, 0, len(tables))
	for _, name := range tables {
		pk := bulk.PrimaryKeysFor(name)
		cols := bulk.ColumnsFor(name)
		fks := bulk.ForeignKeysFor(name)

		result = append(result, schema.TableMetadata{
			TableName:         name,
			SchemaName:        schemaName,
			PrimaryKeyColumns: pk,
			ForeignKeys:       fks,
			Columns:           cols,
			SortStrategy:      resolveSort(name, pk, cols),
			EstimatedRowCount: bulk.RowCountFor(name),
			HasCompositeKey:   len(pk) > 1,
		})
	}
	return result
}
