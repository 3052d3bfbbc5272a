// Package orchestrator drives one export run end to end, grounded on
// DatabaseExportService.performOptimizedExport's six phases: open
// connections, analyze schema, filter tables, initialize export
// components, export in parallel, finalize.
package orchestrator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/afero"

	"github.com/EslamSife/database-exporter/internal/catalog"
	"github.com/EslamSife/database-exporter/internal/config"
	"github.com/EslamSife/database-exporter/internal/exporter"
	"github.com/EslamSife/database-exporter/internal/filter"
	"github.com/EslamSife/database-exporter/internal/pool"
	"github.com/EslamSife/database-exporter/internal/report"
	"github.com/EslamSife/database-exporter/internal/schema"
	"github.com/EslamSife/database-exporter/internal/scheduler"
	"github.com/EslamSife/database-exporter/internal/sink"
)

// PhaseTimings records how long each phase of a run took, surfaced in the
// final summary the way DatabaseExportService.printSummary does.
type PhaseTimings struct {
	Introspection time.Duration
	Filtering     time.Duration
	Export        time.Duration
	Total         time.Duration
}

// Plan is the output of the analyze-only phases (introspection + filter),
// used both by a real export run and by the standalone analyze command.
type Plan struct {
	AllTables      []schema.TableMetadata
	FilteredTables []schema.TableMetadata
	Waves          []scheduler.Wave
	Timings        PhaseTimings
}

// BuildPlan runs phases 1-3: introspect the schema, resolve sort
// strategies, and apply the table filter. It does not touch the output
// sink or the connection pool, so it is safe to call from both `export`
// and the read-only `analyze` command.
func BuildPlan(ctx context.Context, db *sql.DB, cfg config.ExportConfig, log *slog.Logger) (Plan, error) {
	start := time.Now()

	tables, err := catalog.DiscoverTables(ctx, db, cfg.SchemaName, cfg.IncludeSystemTables)
	if err != nil {
		return Plan{}, fmt.Errorf("orchestrator: discover tables: %w", err)
	}

	bulk, err := catalog.ExtractAll(ctx, db, cfg.SchemaName)
	if err != nil {
		return Plan{}, fmt.Errorf("orchestrator: extract metadata: %w", err)
	}

	allTables := catalog.BuildTableMetadata(tables, cfg.SchemaName, bulk, func(name string, pk []string, cols []schema.ColumnInfo) schema.SortStrategy {
		return schema.ResolveSortStrategy(name, pk, cols, func(msg string) {
			log.Warn(msg, "table", name)
		})
	})
	introspectionDuration := time.Since(start)

	filterStart := time.Now()
	tableFilter := filter.New(filterConfigFrom(cfg))
	var filtered []schema.TableMetadata
	for _, t := range allTables {
		if !tableFilter.ShouldExclude(t.TableName, t.EstimatedRowCount) {
			filtered = append(filtered, t)
		}
	}
	filterDuration := time.Since(filterStart)

	waves := scheduler.BuildWaves(filtered, log)

	return Plan{
		AllTables:      allTables,
		FilteredTables: filtered,
		Waves:          waves,
		Timings: PhaseTimings{
			Introspection: introspectionDuration,
			Filtering:     filterDuration,
		},
	}, nil
}

func filterConfigFrom(cfg config.ExportConfig) filter.Config {
	return filter.Config{
		ExactMatches:       cfg.Filter.ExactMatches,
		Prefixes:           cfg.Filter.Prefixes,
		Wildcards:          cfg.Filter.Wildcards,
		Regexes:            cfg.Filter.Regexes,
		ExcludeEmptyTables: cfg.Filter.ExcludeEmptyTables,
	}
}

// RunResult is the full outcome of an export run, consumed by the CLI to
// print the final summary and by the report writer.
type RunResult struct {
	Plan        Plan
	Results     []schema.ExportResult
	OutputPath  string
	ReportPath  string
	RunID       string
	Timings     PhaseTimings
}

// Run executes phases 1 through 6 of a real export: connection pool,
// introspection + filter (via BuildPlan), sink initialization, the
// dependency-level parallel export, and report generation.
func Run(ctx context.Context, sqlDB *sql.DB, fs afero.Fs, cfg config.ExportConfig, runID string, log *slog.Logger) (RunResult, error) {
	overallStart := time.Now()

	log.Info("initializing connection pool", "threads", cfg.ParallelThreads)
	connPool, err := pool.Open(ctx, sqlDB, cfg.ParallelThreads, log)
	if err != nil {
		return RunResult{}, fmt.Errorf("orchestrator: %w", err)
	}
	defer connPool.Shutdown()

	plan, err := BuildPlan(ctx, sqlDB, cfg, log)
	if err != nil {
		return RunResult{}, err
	}
	log.Info("schema analyzed", "totalTables", len(plan.AllTables), "filteredTables", len(plan.FilteredTables))

	s, err := sink.Open(fs, cfg.OutputDirectory, cfg.DBName, len(plan.FilteredTables), cfg.RowLimit)
	if err != nil {
		return RunResult{}, fmt.Errorf("orchestrator: open sink: %w", err)
	}

	tableExporter := exporter.New(connPool, s, cfg.RowLimit, cfg.BatchSize, log)

	uiprogress.Start()
	bar := uiprogress.AddBar(len(plan.FilteredTables)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(*uiprogress.Bar) string { return "Exporting: " })

	exportStart := time.Now()
	results, err := scheduler.Run(ctx, plan.Waves, func(ctx context.Context, table schema.TableMetadata) (schema.ExportResult, error) {
		result, err := tableExporter.ExportTable(ctx, table)
		bar.Incr()
		return result, err
	}, log)
	exportDuration := time.Since(exportStart)
	uiprogress.Stop()

	if closeErr := s.Close(len(plan.FilteredTables)); closeErr != nil {
		log.Warn("error closing output file", "error", closeErr)
	}

	if err != nil {
		return RunResult{}, fmt.Errorf("orchestrator: export: %w", err)
	}

	reportPath, err := report.Write(fs, cfg.OutputDirectory, cfg.DBName, runID, cfg.RowLimit, report.Statistics{
		Results:   results,
		StartTime: overallStart,
		EndTime:   time.Now(),
	})
	if err != nil {
		log.Warn("error writing report", "error", err)
	}

	timings := plan.Timings
	timings.Export = exportDuration
	timings.Total = time.Since(overallStart)

	return RunResult{
		Plan:       plan,
		Results:    results,
		OutputPath: s.OutputPath(),
		ReportPath: reportPath,
		RunID:      runID,
		Timings:    timings,
	}, nil
}
