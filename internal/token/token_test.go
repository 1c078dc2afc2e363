package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsignedJWT builds a JWT with the given claims and an empty signature.
// Expired decodes claims without verifying, so this is enough.
func unsignedJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return fmt.Sprintf("%s.%s.", enc.EncodeToString(header), enc.EncodeToString(payload))
}

func cookieValue(t *testing.T, tok string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"accessOrWorkspaceAgnosticToken": map[string]any{
			"token":     tok,
			"expiresAt": "2099-01-01T00:00:00Z",
		},
	})
	require.NoError(t, err)
	return string(raw)
}

func TestStatic(t *testing.T) {
	tok, err := Static("abc").Token(context.Background(), "https://crm.example.com")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = Static("").Token(context.Background(), "https://crm.example.com")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestParseTokenPair(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		tok, err := ParseTokenPair(cookieValue(t, "the-token"))
		require.NoError(t, err)
		assert.Equal(t, "the-token", tok)
	})

	t.Run("url encoded", func(t *testing.T) {
		tok, err := ParseTokenPair(url.QueryEscape(cookieValue(t, "the-token")))
		require.NoError(t, err)
		assert.Equal(t, "the-token", tok)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseTokenPair("not-a-cookie")
		require.Error(t, err)
	})

	t.Run("missing token field", func(t *testing.T) {
		_, err := ParseTokenPair(`{"accessOrWorkspaceAgnosticToken":{}}`)
		require.Error(t, err)
	})
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("future exp", func(t *testing.T) {
		tok := unsignedJWT(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
		assert.False(t, Expired(tok, now))
	})

	t.Run("past exp", func(t *testing.T) {
		tok := unsignedJWT(t, map[string]any{"exp": now.Add(-time.Hour).Unix()})
		assert.True(t, Expired(tok, now))
	})

	t.Run("no exp claim", func(t *testing.T) {
		tok := unsignedJWT(t, map[string]any{"sub": "user"})
		assert.False(t, Expired(tok, now))
	})

	t.Run("not a jwt is left for the server", func(t *testing.T) {
		assert.False(t, Expired("opaque-token", now))
	})
}

func TestCookieSource(t *testing.T) {
	ctx := context.Background()

	t.Run("found on base url", func(t *testing.T) {
		src := CookieSource{Get: func(_ context.Context, rawURL, name string) (string, error) {
			assert.Equal(t, CookieName, name)
			if rawURL == "https://crm.example.com" {
				return cookieValue(t, "tok-1"), nil
			}
			return "", nil
		}}
		tok, err := src.Token(ctx, "https://crm.example.com")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)
	})

	t.Run("falls back to www host", func(t *testing.T) {
		var tried []string
		src := CookieSource{Get: func(_ context.Context, rawURL, _ string) (string, error) {
			tried = append(tried, rawURL)
			if rawURL == "https://www.crm.example.com" {
				return cookieValue(t, "tok-www"), nil
			}
			return "", nil
		}}
		tok, err := src.Token(ctx, "https://crm.example.com")
		require.NoError(t, err)
		assert.Equal(t, "tok-www", tok)
		assert.Equal(t, []string{"https://crm.example.com", "https://www.crm.example.com"}, tried)
	})

	t.Run("scheme-less base url still tries www host", func(t *testing.T) {
		var tried []string
		src := CookieSource{Get: func(_ context.Context, rawURL, _ string) (string, error) {
			tried = append(tried, rawURL)
			if rawURL == "www.crm.example.com" {
				return cookieValue(t, "tok-www"), nil
			}
			return "", nil
		}}
		tok, err := src.Token(ctx, "crm.example.com")
		require.NoError(t, err)
		assert.Equal(t, "tok-www", tok)
		assert.Equal(t, []string{"crm.example.com", "www.crm.example.com"}, tried)
	})

	t.Run("www flipped off", func(t *testing.T) {
		src := CookieSource{Get: func(_ context.Context, rawURL, _ string) (string, error) {
			if rawURL == "https://crm.example.com" {
				return cookieValue(t, "tok-bare"), nil
			}
			return "", nil
		}}
		tok, err := src.Token(ctx, "https://www.crm.example.com")
		require.NoError(t, err)
		assert.Equal(t, "tok-bare", tok)
	})

	t.Run("expired cookie skipped", func(t *testing.T) {
		expired := unsignedJWT(t, map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})
		src := CookieSource{Get: func(_ context.Context, rawURL, _ string) (string, error) {
			if rawURL == "https://crm.example.com" {
				return cookieValue(t, expired), nil
			}
			return "", nil
		}}
		_, err := src.Token(ctx, "https://crm.example.com")
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("no cookie anywhere", func(t *testing.T) {
		src := CookieSource{Get: func(context.Context, string, string) (string, error) {
			return "", nil
		}}
		_, err := src.Token(ctx, "https://crm.example.com")
		assert.ErrorIs(t, err, ErrNoToken)
	})
}
