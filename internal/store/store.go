// Package store persists the capture ledger and extension settings.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/neilk17/twenty-capture/internal/model"
)

// MaxRecentCaptures bounds the capture ledger. Saving past the bound drops
// the oldest entries.
const MaxRecentCaptures = 10

// SettingCRMBaseURL is the settings key holding the Twenty instance URL.
const SettingCRMBaseURL = "crm_base_url"

// Store defines persistence for the capture ledger and the settings KV.
//
// SaveCapture removes any existing entry with the same source key, prepends
// the new entry, and truncates to MaxRecentCaptures. ListCaptures returns
// entries most-recent-first. The ledger is advisory history only; duplicate
// decisions never consult it.
type Store interface {
	SaveCapture(ctx context.Context, entry model.CaptureEntry) error
	ListCaptures(ctx context.Context) ([]model.CaptureEntry, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver: "sqlite", "postgres" or
// "memory".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
