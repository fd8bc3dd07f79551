// Package pipeline runs one travel ETL pass: load every source table, join
// them into one row per ticket leg, run the transform chain and optionally
// export the result.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"travel-etl/internal/config"
	"travel-etl/internal/datasource/sqlite"
	"travel-etl/internal/ddl"
	"travel-etl/internal/join"
	"travel-etl/internal/logging"
	"travel-etl/internal/metrics"
	"travel-etl/internal/storage"
	"travel-etl/internal/table"
)

// Options tweak a run beyond what the pipeline file says.
type Options struct {
	// Locale is used by localize steps that do not name one. Empty means
	// builtin.DefaultLocale.
	Locale string

	// Plan overrides join.DefaultPlan, mostly for tests.
	Plan *join.Plan
}

// StageStat summarizes one pipeline stage.
type StageStat struct {
	Name     string
	Rows     int
	Columns  int
	Duration time.Duration
}

// Result is what a successful run produced.
type Result struct {
	RunID    string
	Table    *table.Table
	Stages   []StageStat
	Exported storage.Stats
}

// Run executes the pipeline described by cfg. The first failing stage aborts
// the run; its error is wrapped with the stage name ("load", "join",
// "transform", "export") and keeps the typed cause reachable via errors.As.
func Run(ctx context.Context, cfg config.Pipeline, opts Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = logging.Nop()
	}
	log, runID := logging.WithRun(log, cfg.Job)
	res := &Result{RunID: runID}

	chain, err := BuildChain(cfg.Transform, opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	plan := join.DefaultPlan()
	if opts.Plan != nil {
		plan = *opts.Plan
	}
	if kind := cfg.Source.Kind; kind != "" && kind != "sqlite" {
		return nil, fmt.Errorf("load: unsupported source.kind=%s", kind)
	}

	log.Info("run started",
		zap.String("source", logging.SanitizeDSN(cfg.Source.DSN)),
		zap.Strings("transforms", chain.Names()),
		zap.String("storage", cfg.Storage.Kind),
	)

	// load
	start := time.Now()
	done := metrics.StartStep(cfg.Job, "load")
	set, err := sqlite.Load(ctx, sqlite.Config{DSN: cfg.Source.DSN})
	done(err)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, fmt.Errorf("load: %w", err)
	}
	loaded := 0
	for name, t := range set {
		loaded += t.Len()
		log.Debug("table loaded", zap.String("table", name), zap.Int("rows", t.Len()), zap.Int("columns", len(t.Columns)))
	}
	metrics.RecordRow(cfg.Job, metrics.RowsLoaded, int64(loaded))
	res.Stages = append(res.Stages, StageStat{Name: "load", Rows: loaded, Columns: len(set), Duration: time.Since(start)})

	// join
	start = time.Now()
	done = metrics.StartStep(cfg.Job, "join")
	joined, err := join.ExecuteTrace(set, plan, func(step int, s join.Step, rows int) {
		log.Debug("join step", zap.Int("step", step), zap.String("join", s.String()), zap.Int("rows", rows))
	})
	done(err)
	if err != nil {
		log.Error("join failed", zap.Error(err))
		return nil, fmt.Errorf("join: %w", err)
	}
	metrics.RecordRow(cfg.Job, metrics.RowsJoined, int64(joined.Len()))
	res.Stages = append(res.Stages, StageStat{Name: "join", Rows: joined.Len(), Columns: len(joined.Columns), Duration: time.Since(start)})

	// transform
	start = time.Now()
	out, err := chain.ApplyHook(joined, func(name string, t *table.Table, err error, d time.Duration) {
		metrics.RecordStep(cfg.Job, "transform:"+name, err, d)
		if err == nil {
			log.Debug("transform applied", zap.String("transform", name), zap.Int("columns", len(t.Columns)), zap.Duration("took", d))
		}
	})
	if err != nil {
		log.Error("transform failed", zap.Error(err))
		return nil, fmt.Errorf("transform: %w", err)
	}
	out.Name = join.OutputName
	metrics.RecordRow(cfg.Job, metrics.RowsOutput, int64(out.Len()))
	res.Stages = append(res.Stages, StageStat{Name: "transform", Rows: out.Len(), Columns: len(out.Columns), Duration: time.Since(start)})
	res.Table = out

	// export
	if cfg.Storage.Kind != "" {
		start = time.Now()
		done = metrics.StartStep(cfg.Job, "export")
		st, err := export(ctx, log, cfg.Storage, out)
		done(err)
		if err != nil {
			log.Error("export failed", zap.Error(err))
			return nil, fmt.Errorf("export: %w", err)
		}
		metrics.RecordRow(cfg.Job, metrics.RowsExported, st.Rows)
		metrics.RecordBatches(cfg.Job, st.Batches)
		res.Exported = st
		res.Stages = append(res.Stages, StageStat{Name: "export", Rows: int(st.Rows), Columns: len(out.Columns), Duration: time.Since(start)})
	}

	log.Info("run finished", zap.Int("rows", out.Len()), zap.Int("columns", len(out.Columns)), zap.Int64("exported", res.Exported.Rows))
	return res, nil
}

func export(ctx context.Context, log *zap.Logger, sc config.Storage, out *table.Table) (storage.Stats, error) {
	log.Info("connecting to storage",
		zap.String("kind", sc.Kind),
		zap.String("dsn", logging.SanitizeDSN(sc.DB.DSN)),
		zap.String("table", sc.DB.Table),
	)
	repo, err := storage.New(ctx, storage.Config{
		Kind:    sc.Kind,
		DSN:     sc.DB.DSN,
		Table:   sc.DB.Table,
		Columns: out.ColumnNames(),
	})
	if err != nil {
		return storage.Stats{}, err
	}
	defer repo.Close()

	if sc.DB.AutoCreateTable {
		def, err := ddl.FromTable(sc.DB.Table, out)
		if err != nil {
			return storage.Stats{}, err
		}
		if err := storage.EnsureTable(ctx, sc.Kind, repo, def); err != nil {
			return storage.Stats{}, fmt.Errorf("apply DDL: %w", err)
		}
	}

	batch := sc.DB.BatchSize
	if batch <= 0 {
		batch = 1000
	}
	return storage.Export(ctx, log, repo, out, batch)
}
