// Package scheduler computes dependency-level waves over a table set and
// drives level-synchronous parallel execution, grounded on
// DependencyLevelParallelExporter's BFS level assignment: level 0 has no
// in-set foreign keys, level N depends only on levels 0..N-1, and tables
// that never settle (cycles) are sentineled to a final wave instead of
// breaking the cycle.
package scheduler

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/EslamSife/database-exporter/internal/schema"
)

// cycleLevel sentinels tables whose foreign keys never fully resolve to a
// finite level, grouping every unresolved table into one final wave.
const cycleLevel = math.MaxInt32

// Wave is one batch of tables safe to export concurrently.
type Wave struct {
	Level  int
	Tables []schema.TableMetadata
	Cyclic bool
}

// BuildWaves partitions tables into dependency-ordered waves. Foreign keys
// to tables outside this set, and self-references, are ignored when
// computing dependencies: they can't gate ordering among the tables being
// exported.
func BuildWaves(tables []schema.TableMetadata, log *slog.Logger) []Wave {
	if log == nil {
		log = slog.Default()
	}

	inSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		inSet[t.TableName] = true
	}

	deps := make(map[string]map[string]bool, len(tables))
	for _, t := range tables {
		set := make(map[string]bool)
		for _, fk := range t.ForeignKeys {
			if fk.ReferencedTable == t.TableName {
				continue
			}
			if inSet[fk.ReferencedTable] {
				set[fk.ReferencedTable] = true
			}
		}
		deps[t.TableName] = set
	}

	levels := computeLevels(tables, deps)

	byLevel := make(map[int][]schema.TableMetadata)
	for _, t := range tables {
		byLevel[levels[t.TableName]] = append(byLevel[levels[t.TableName]], t)
	}

	maxFinite := -1
	for lvl := range byLevel {
		if lvl != cycleLevel && lvl > maxFinite {
			maxFinite = lvl
		}
	}

	var waves []Wave
	for lvl := 0; lvl <= maxFinite; lvl++ {
		group, ok := byLevel[lvl]
		if !ok {
			continue
		}
		waves = append(waves, Wave{Level: lvl, Tables: group})
	}
	if cyclic, ok := byLevel[cycleLevel]; ok {
		for _, t := range cyclic {
			log.Warn("circular dependency detected, exporting in final wave", "table", t.TableName)
		}
		waves = append(waves, Wave{Level: maxFinite + 1, Tables: cyclic, Cyclic: true})
	}

	return waves
}

func computeLevels(tables []schema.TableMetadata, deps map[string]map[string]bool) map[string]int {
	levels := make(map[string]int, len(tables))
	processed := make(map[string]bool, len(tables))

	var queue []string
	for _, t := range tables {
		if len(deps[t.TableName]) == 0 {
			levels[t.TableName] = 0
			processed[t.TableName] = true
			queue = append(queue, t.TableName)
		}
	}

	for len(queue) > 0 {
		queue = queue[1:]

		for _, t := range tables {
			name := t.TableName
			if processed[name] {
				continue
			}

			allSatisfied := true
			maxDepLevel := -1
			for dep := range deps[name] {
				if !processed[dep] {
					allSatisfied = false
					break
				}
				if levels[dep] > maxDepLevel {
					maxDepLevel = levels[dep]
				}
			}
			if !allSatisfied {
				continue
			}

			levels[name] = maxDepLevel + 1
			processed[name] = true
			queue = append(queue, name)
		}
	}

	for _, t := range tables {
		if !processed[t.TableName] {
			levels[t.TableName] = cycleLevel
		}
	}

	return levels
}

// TableExporter runs one table to completion and reports its outcome.
type TableExporter func(ctx context.Context, table schema.TableMetadata) (schema.ExportResult, error)

// Run executes every wave in order, barrier-synchronized between waves so a
// level N table never starts before every level N-1 table has committed its
// rows, and runs the tables within one wave concurrently via errgroup.
func Run(ctx context.Context, waves []Wave, export TableExporter, log *slog.Logger) ([]schema.ExportResult, error) {
	if log == nil {
		log = slog.Default()
	}

	var all []schema.ExportResult

	for _, wave := range waves {
		log.Info("exporting wave", "level", wave.Level, "tables", len(wave.Tables), "cyclic", wave.Cyclic)

		group, groupCtx := errgroup.WithContext(ctx)
		results := make([]schema.ExportResult, len(wave.Tables))

		for i, table := range wave.Tables {
			i, table := i, table
			group.Go(func() error {
				result, err := export(groupCtx, table)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return all, err
		}

		all = append(all, results...)
	}

	return all, nil
}
