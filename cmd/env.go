package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/store"
	"github.com/neilk17/twenty-capture/internal/token"
	"github.com/neilk17/twenty-capture/pkg/twenty"
)

var ephemeralStore bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&ephemeralStore, "ephemeral", false, "use an in-memory store instead of the configured backend")
}

func initStore(ctx context.Context) (store.Store, error) {
	driver := cfg.Store.Driver
	if ephemeralStore {
		driver = "memory"
	}

	st, err := store.Open(ctx, driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	// Seed the stored base URL from config on first run so CLI commands
	// work without a prior SAVE_SETTINGS call.
	if cfg.CRM.BaseURL != "" {
		current, err := st.GetSetting(ctx, store.SettingCRMBaseURL)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		if current == "" {
			if err := st.SetSetting(ctx, store.SettingCRMBaseURL, cfg.CRM.BaseURL); err != nil {
				_ = st.Close()
				return nil, err
			}
		}
	}

	return st, nil
}

// initService builds the capture engine over the configured store and the
// static token from config. Callers own the returned store and should
// defer st.Close().
func initService(ctx context.Context) (*capture.Service, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc := capture.NewService(st, token.Static(cfg.CRM.Token),
		capture.WithClientFactory(func(baseURL, tok string) twenty.Client {
			return twenty.NewClient(baseURL, tok, twenty.WithRateLimit(cfg.CRM.RateLimit))
		}),
	)

	return svc, st, nil
}
