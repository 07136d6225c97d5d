package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/kinerja-cli/internal/performance"
	"github.com/sells-group/kinerja-cli/internal/service"
	"github.com/sells-group/kinerja-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "kinerja.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// initService builds a Service over st from the loaded config. st may be nil.
func initService(st store.Store) (*service.Service, error) {
	static, err := performance.LoadStaticLevels(cfg.Import.StaticLevelsPath)
	if err != nil {
		return nil, err
	}
	return service.New(st, service.Options{
		StaticLevels: static,
		LegacyRemap:  cfg.Import.LegacyScoreRemap,
		Weights:      cfg.Report.Weights(),
		Concurrency:  cfg.Import.MaxConcurrency,
		Logger:       zap.L(),
	}), nil
}

// withService opens the store, runs fn and closes the store.
func withService(ctx context.Context, fn func(*service.Service, store.Store) error) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	svc, err := initService(st)
	if err != nil {
		return err
	}
	return fn(svc, st)
}
