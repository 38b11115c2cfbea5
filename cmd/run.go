package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/adaptquiz/internal/config"
	"github.com/abhisek/adaptquiz/internal/engine"
	"github.com/abhisek/adaptquiz/internal/grading"
	"github.com/abhisek/adaptquiz/internal/logging"
	"github.com/abhisek/adaptquiz/internal/metrics"
	"github.com/abhisek/adaptquiz/internal/selection"
	"github.com/abhisek/adaptquiz/internal/store"
)

// runtime is everything a command needs, built from flags and config.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	engine  *engine.Engine
	grader  *grading.Grader
	metrics *metrics.Metrics

	metricsFile string
}

func (r *runtime) Close() {
	if r.metricsFile != "" {
		if err := r.metrics.WriteTextfile(r.metricsFile); err != nil {
			r.log.Warn("write metrics", zap.String("path", r.metricsFile), zap.Error(err))
		}
	}
	r.store.Close()
	_ = r.log.Sync()
}

// openRuntime loads config, builds the logger, opens the store and wires
// the engine. Callers must Close the result.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	storeCfg := cfg.StoreConfig()
	if p, _ := cmd.Flags().GetString("db"); p != "" || storeCfg.DSN == "" {
		// An explicit --db or a missing DSN means a local SQLite file.
		path, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		storeCfg = store.Config{Driver: store.DriverSQLite, DSN: path}
	}

	st, err := store.Open(cmd.Context(), storeCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", zap.String("driver", st.Dialect()))

	m := metrics.New()
	grader := grading.New(cfg.GradingConfig())
	eng, err := engine.New(engine.Deps{
		Questions: st,
		Students:  st,
		Attempts:  st,
		Rounds:    st,
		Selector:  selection.NewDefault(),
		Grader:    grader,
		Logger:    log,
		Metrics:   m,
		Config:    cfg.EngineConfig(),
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	return &runtime{cfg: cfg, log: log, store: st, engine: eng, grader: grader, metrics: m, metricsFile: metricsFile}, nil
}
