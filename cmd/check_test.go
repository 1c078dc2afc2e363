package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/store"
	"github.com/neilk17/twenty-capture/internal/token"
	"github.com/neilk17/twenty-capture/pkg/twenty"
	"github.com/neilk17/twenty-capture/pkg/twenty/twentytest"
)

// flakySettingsStore serves a fixed number of GetSetting calls before the
// backend starts failing.
type flakySettingsStore struct {
	store.Store
	remaining int
}

func (s *flakySettingsStore) GetSetting(ctx context.Context, key string) (string, error) {
	if s.remaining <= 0 {
		return "", errors.New("settings backend offline")
	}
	s.remaining--
	return s.Store.GetSetting(ctx, key)
}

func pingService(t *testing.T, st store.Store) *capture.Service {
	t.Helper()
	return capture.NewService(st, token.Static("tok"),
		capture.WithClientFactory(func(string, string) twenty.Client {
			return &twentytest.Fake{}
		}),
	)
}

func TestRunPing(t *testing.T) {
	ctx := context.Background()

	t.Run("prints the configured base url", func(t *testing.T) {
		st := store.NewMemory()
		require.NoError(t, st.SetSetting(ctx, store.SettingCRMBaseURL, "https://crm.example.com"))

		var out bytes.Buffer
		require.NoError(t, runPing(ctx, &out, pingService(t, st)))
		assert.Equal(t, "connected to https://crm.example.com\n", out.String())
	})

	t.Run("settings read failure is an error, not a blank url", func(t *testing.T) {
		st := store.NewMemory()
		require.NoError(t, st.SetSetting(ctx, store.SettingCRMBaseURL, "https://crm.example.com"))

		// The first read feeds the connection test; the settings read
		// for the final message then fails.
		flaky := &flakySettingsStore{Store: st, remaining: 1}

		var out bytes.Buffer
		err := runPing(ctx, &out, pingService(t, flaky))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read settings")
		assert.Empty(t, out.String())
	})

	t.Run("connection failure propagates", func(t *testing.T) {
		st := store.NewMemory()
		svc := pingService(t, st)

		var out bytes.Buffer
		err := runPing(ctx, &out, svc)
		require.Error(t, err)
		assert.Equal(t, twenty.KindNotConfigured, twenty.KindOf(err))
	})
}
