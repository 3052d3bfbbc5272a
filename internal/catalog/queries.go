package catalog

// The table-discovery query and the four bulk catalog queries below are
// schema-parameterized (@p1) and fixed;
// per spec §6, any change to their shape or output is a breaking change.
// They are restated from the original Java MetadataExtractor's
// INFORMATION_SCHEMA / sys.* queries, kept as T-SQL positional parameters
// to match this repo's existing SQL Server dialect conventions.

const tablesQuery = `
SELECT TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME
`

const primaryKeysQuery = `
SELECT
	tc.TABLE_NAME,
	kcu.COLUMN_NAME,
	kcu.ORDINAL_POSITION
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
	ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
	AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
	AND tc.TABLE_NAME = kcu.TABLE_NAME
WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
	AND tc.TABLE_SCHEMA = @p1
ORDER BY tc.TABLE_NAME, kcu.ORDINAL_POSITION
`

const foreignKeysQuery = `
SELECT
	fk.name AS FK_NAME,
	OBJECT_NAME(fk.parent_object_id) AS TABLE_NAME,
	COL_NAME(fkc.parent_object_id, fkc.parent_column_id) AS COLUMN_NAME,
	SCHEMA_NAME(ref_tab.schema_id) AS REFERENCED_SCHEMA,
	ref_tab.name AS REFERENCED_TABLE,
	COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) AS REFERENCED_COLUMN,
	fkc.constraint_column_id AS KEY_SEQUENCE
FROM sys.foreign_keys fk
INNER JOIN sys.foreign_key_columns fkc
	ON fk.object_id = fkc.constraint_object_id
INNER JOIN sys.tables tab
	ON fk.parent_object_id = tab.object_id
INNER JOIN sys.tables ref_tab
	ON fkc.referenced_object_id = ref_tab.object_id
WHERE SCHEMA_NAME(tab.schema_id) = @p1
ORDER BY OBJECT_NAME(fk.parent_object_id), fkc.constraint_column_id
`

const columnsQuery = `
SELECT
	c.TABLE_NAME,
	c.COLUMN_NAME,
	c.DATA_TYPE,
	c.CHARACTER_MAXIMUM_LENGTH AS COLUMN_SIZE,
	c.IS_NULLABLE,
	c.ORDINAL_POSITION,
	CASE
		WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1
		THEN 'YES'
		ELSE 'NO'
	END AS IS_AUTOINCREMENT
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
`

const rowCountsQuery = `
SELECT
	t.name AS TABLE_NAME,
	SUM(p.rows) AS ROW_COUNT
FROM sys.tables t
INNER JOIN sys.partitions p ON t.object_id = p.object_id
INNER JOIN sys.schemas s ON t.schema_id = s.schema_id
WHERE p.index_id IN (0, 1)
	AND s.name = @p1
GROUP BY t.name
ORDER BY t.name
`
