package schema

import "strings"

// ResolveSortStrategy picks a deterministic row ordering for a table from
// its columns and primary key, following the priority cascade in the
// original MetadataExtractor/SortStrategyResolver split: date columns beat
// primary keys, primary keys beat no sort at all.
//
// warn is called with an operator-facing message when the table falls back
// to NoSort, matching the original's logger.warning call; it may be nil.
func ResolveSortStrategy(tableName string, primaryKeyColumns []string, columns []ColumnInfo, warn func(string)) SortStrategy {
	if s, ok := dateTimeStrategy(columns); ok {
		return s
	}

	if len(primaryKeyColumns) > 0 {
		return NewPrimaryKeySortStrategy(primaryKeyColumns)
	}

	if warn != nil {
		warn("table '" + tableName + "' has no date columns or primary key - rows will be exported in server order")
	}
	return NewNoSortStrategy()
}

func dateTimeStrategy(columns []ColumnInfo) (SortStrategy, bool) {
	var dateColumns []ColumnInfo
	for _, c := range columns {
		if c.IsDateTime() {
			dateColumns = append(dateColumns, c)
		}
	}
	if len(dateColumns) == 0 {
		return SortStrategy{}, false
	}

	if c, ok := firstMatching(dateColumns, "updated", "modify", "modified"); ok {
		return NewDateTimeSortStrategy(c.Name, DateUpdated), true
	}
	if c, ok := firstMatching(dateColumns, "created", "insert"); ok {
		return NewDateTimeSortStrategy(c.Name, DateCreated), true
	}
	return NewDateTimeSortStrategy(dateColumns[0].Name, DateGeneric), true
}

func firstMatching(columns []ColumnInfo, patterns ...string) (ColumnInfo, bool) {
	for _, c := range columns {
		lower := strings.ToLower(c.Name)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return c, true
			}
		}
	}
	return ColumnInfo{}, false
}
