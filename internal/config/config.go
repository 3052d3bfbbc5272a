// Package config validates the external configuration object (spec §6)
// once at construction; ExportConfig is immutable for the lifetime of a
// run.
package config

import (
	"fmt"
	"runtime"
	"strconv"
)

// FilterConfig mirrors the operator-supplied table exclusion lists that
// internal/filter.Config consumes; it lives here so one YAML document can
// populate both the connection settings and the filter policy.
type FilterConfig struct {
	ExactMatches       []string
	Prefixes           []string
	Wildcards          []string
	Regexes            []string
	ExcludeEmptyTables bool
}

// ExportConfig is the validated, immutable configuration for one export
// run.
type ExportConfig struct {
	DBHost                    string
	DBPort                    string
	DBName                    string
	DBUser                    string
	DBPassword                string
	SchemaName                string
	RowLimit                  int
	BatchSize                 int
	ParallelThreads           int
	OutputDirectory           string
	IncludeSystemTables       bool
	GenerateCreateStatements  bool
	GenerateDropStatements    bool
	Filter                    FilterConfig
}

// Option mutates a candidate ExportConfig before validation, in the usual
// functional-options style.
type Option func(*ExportConfig)

func WithSchemaName(name string) Option       { return func(c *ExportConfig) { c.SchemaName = name } }
func WithRowLimit(n int) Option               { return func(c *ExportConfig) { c.RowLimit = n } }
func WithBatchSize(n int) Option              { return func(c *ExportConfig) { c.BatchSize = n } }
func WithParallelThreads(n int) Option        { return func(c *ExportConfig) { c.ParallelThreads = n } }
func WithOutputDirectory(dir string) Option   { return func(c *ExportConfig) { c.OutputDirectory = dir } }
func WithIncludeSystemTables(b bool) Option   { return func(c *ExportConfig) { c.IncludeSystemTables = b } }
func WithGenerateCreateStatements(b bool) Option {
	return func(c *ExportConfig) { c.GenerateCreateStatements = b }
}
func WithGenerateDropStatements(b bool) Option {
	return func(c *ExportConfig) { c.GenerateDropStatements = b }
}
func WithFilter(f FilterConfig) Option { return func(c *ExportConfig) { c.Filter = f } }

// New validates and constructs an ExportConfig. An invalid field fails
// construction with an error naming the offending field; the run never
// starts.
func New(dbHost, dbPort, dbName, dbUser, dbPassword string, opts ...Option) (ExportConfig, error) {
	cfg := ExportConfig{
		DBHost:          dbHost,
		DBPort:          dbPort,
		DBName:          dbName,
		DBUser:          dbUser,
		DBPassword:      dbPassword,
		SchemaName:      "dbo",
		RowLimit:        200,
		BatchSize:       1000,
		ParallelThreads: runtime.NumCPU(),
		OutputDirectory: "./exports",
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return ExportConfig{}, err
	}
	return cfg, nil
}

func (c ExportConfig) validate() error {
	if err := requireNonEmpty("dbHost", c.DBHost); err != nil {
		return err
	}
	if err := requireNonEmpty("dbPort", c.DBPort); err != nil {
		return err
	}
	if err := requireNonEmpty("dbName", c.DBName); err != nil {
		return err
	}
	if err := requireNonEmpty("dbUser", c.DBUser); err != nil {
		return err
	}
	// DBPassword may be empty; Go's string type has no nil, so "non-null"
	// from spec §6 is satisfied unconditionally.
	if err := requireNonEmpty("schemaName", c.SchemaName); err != nil {
		return err
	}
	if err := requireNonEmpty("outputDirectory", c.OutputDirectory); err != nil {
		return err
	}

	port, err := strconv.Atoi(c.DBPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("config: dbPort must be parsable in 1..65535, got %q", c.DBPort)
	}

	if err := requireRange("rowLimit", c.RowLimit, 1, 1_000_000); err != nil {
		return err
	}
	if err := requireRange("batchSize", c.BatchSize, 1, 10_000); err != nil {
		return err
	}
	if err := requireRange("parallelThreads", c.ParallelThreads, 1, 32); err != nil {
		return err
	}

	return nil
}

func requireNonEmpty(field, value string) error {
	if value == "" {
		return fmt.Errorf("config: %s cannot be empty", field)
	}
	return nil
}

func requireRange(field string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("config: %s must be between %d and %d, got %d", field, min, max, value)
	}
	return nil
}

// ConnectionString renders the sqlserver:// DSN described in spec §6.
func (c ExportConfig) ConnectionString() string {
	return fmt.Sprintf(
		"sqlserver://%s:%s;databaseName=%s;encrypt=false;trustServerCertificate=true;integratedSecurity=false;user=%s;password=%s;loginTimeout=30",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword,
	)
}
