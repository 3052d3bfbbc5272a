// Package schema holds the data model produced by the bulk metadata
// extractor and consumed by the filter, sort resolver, and scheduler.
package schema

import "strings"

// SQLTypeCode is the closed set of column types the codec and extractor
// agree on. Anything the catalog reports outside this set collapses to
// TypeOther, which the codec renders as a quoted string.
type SQLTypeCode int

const (
	TypeOther SQLTypeCode = iota
	TypeVarChar
	TypeChar
	TypeNVarChar
	TypeNChar
	TypeLongText
	TypeCLOB
	TypeNCLOB
	TypeDate
	TypeTime
	TypeTimestamp
	TypeTimestampWithTimezone
	TypeBit
	TypeBoolean
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeNumeric
	TypeDecimal
	TypeReal
	TypeFloat
	TypeDouble
	TypeBinary
	TypeVarBinary
	TypeLongVarBinary
	TypeBlob
)

// ColumnInfo describes a single column as reported by the catalog extractor.
// Immutable once constructed.
type ColumnInfo struct {
	Name          string
	SQLTypeCode   SQLTypeCode
	TypeName      string
	Size          int
	Nullable      bool
	AutoIncrement bool
	Ordinal       int
}

func (c ColumnInfo) IsDateTime() bool {
	switch c.SQLTypeCode {
	case TypeDate, TypeTime, TypeTimestamp, TypeTimestampWithTimezone:
		return true
	}
	return false
}

func (c ColumnInfo) IsNumeric() bool {
	switch c.SQLTypeCode {
	case TypeTinyInt, TypeSmallInt, TypeInteger, TypeBigInt,
		TypeNumeric, TypeDecimal, TypeReal, TypeFloat, TypeDouble:
		return true
	}
	return false
}

func (c ColumnInfo) IsString() bool {
	switch c.SQLTypeCode {
	case TypeVarChar, TypeChar, TypeNVarChar, TypeNChar, TypeLongText, TypeCLOB, TypeNCLOB:
		return true
	}
	return false
}

// ForeignKeyInfo describes one column participation in a foreign key
// constraint. Composite keys produce one ForeignKeyInfo per column, ordered
// by KeySequence within the same ConstraintName.
type ForeignKeyInfo struct {
	ConstraintName   string
	LocalColumn      string
	ReferencedSchema string
	ReferencedTable  string
	ReferencedColumn string
	KeySequence      int
}

// SortStrategyKind tags which shape of SortStrategy is in play.
type SortStrategyKind int

const (
	SortNone SortStrategyKind = iota
	SortDateTime
	SortPrimaryKey
)

// DateTimeSortKind further distinguishes a DateTimeBased strategy.
type DateTimeSortKind int

const (
	DateUpdated DateTimeSortKind = iota
	DateCreated
	DateGeneric
)

// SortStrategy is a tagged variant with three shapes: DateTimeBased,
// PrimaryKeyBased, and NoSort. Construct via the package-level
// constructors; the zero value is NoSort.
type SortStrategy struct {
	kind       SortStrategyKind
	columnName string
	dateKind   DateTimeSortKind
	keyColumns []string
}

func NewDateTimeSortStrategy(columnName string, kind DateTimeSortKind) SortStrategy {
	return SortStrategy{kind: SortDateTime, columnName: columnName, dateKind: kind}
}

func NewPrimaryKeySortStrategy(keyColumns []string) SortStrategy {
	cp := make([]string, len(keyColumns))
	copy(cp, keyColumns)
	return SortStrategy{kind: SortPrimaryKey, keyColumns: cp}
}

func NewNoSortStrategy() SortStrategy {
	return SortStrategy{kind: SortNone}
}

func (s SortStrategy) Kind() SortStrategyKind       { return s.kind }
func (s SortStrategy) ColumnName() string           { return s.columnName }
func (s SortStrategy) DateKind() DateTimeSortKind   { return s.dateKind }
func (s SortStrategy) KeyColumns() []string         { return s.keyColumns }

// SortClause renders the ORDER BY fragment for this strategy, empty for
// NoSort.
func (s SortStrategy) SortClause() string {
	switch s.kind {
	case SortDateTime:
		return s.columnName + " DESC"
	case SortPrimaryKey:
		parts := make([]string, len(s.keyColumns))
		for i, c := range s.keyColumns {
			parts[i] = "[" + c + "] DESC"
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// TableMetadata is the fully assembled per-table record the scheduler and
// exporter operate on. Built once during introspection, read-only
// thereafter.
type TableMetadata struct {
	TableName          string
	SchemaName         string
	PrimaryKeyColumns  []string
	ForeignKeys        []ForeignKeyInfo
	Columns            []ColumnInfo
	SortStrategy       SortStrategy
	EstimatedRowCount  int64
	HasCompositeKey    bool
}

// FullTableName renders the bracket-quoted, schema-qualified table name
// used in generated SQL.
func (t TableMetadata) FullTableName() string {
	if t.SchemaName == "" {
		return "[" + t.TableName + "]"
	}
	return "[" + t.SchemaName + "].[" + t.TableName + "]"
}

// ExportResult is the per-table outcome reported after a table finishes
// exporting.
type ExportResult struct {
	TableName       string
	RowCount        int64
	DurationSeconds float64
}
