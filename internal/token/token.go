// Package token derives short-lived CRM bearer tokens from the Twenty
// session cookie.
package token

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CookieName is the Twenty session cookie carrying the token pair.
const CookieName = "tokenPair"

// ErrNoToken is returned when no usable token could be derived. Callers
// prompt the operator to log in to the CRM and retry; nothing retries
// internally.
var ErrNoToken = eris.New("token: no authentication token found, log in to the Twenty instance")

// Source yields a bearer token for the CRM at baseURL, or ErrNoToken.
// Tokens are short-lived; callers re-derive on every logical operation
// rather than caching.
type Source interface {
	Token(ctx context.Context, baseURL string) (string, error)
}

// Static is a fixed token supplied via configuration. An empty value
// yields ErrNoToken.
type Static string

func (s Static) Token(ctx context.Context, baseURL string) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// CookieGetter looks up a cookie value by URL and name. The bridge supplies
// one backed by the browser's cookie store; "" means not found.
type CookieGetter func(ctx context.Context, rawURL, name string) (string, error)

// CookieSource derives tokens from the tokenPair cookie under the CRM's
// domain, trying the host both with and without a www prefix.
type CookieSource struct {
	Get CookieGetter
}

func (s CookieSource) Token(ctx context.Context, baseURL string) (string, error) {
	for _, u := range []string{baseURL, alternateHost(baseURL)} {
		if u == "" {
			continue
		}
		value, err := s.Get(ctx, u, CookieName)
		if err != nil {
			zap.L().Warn("token: cookie lookup failed", zap.String("url", u), zap.Error(err))
			continue
		}
		if value == "" {
			continue
		}
		tok, err := ParseTokenPair(value)
		if err != nil {
			zap.L().Warn("token: could not parse cookie", zap.String("url", u), zap.Error(err))
			continue
		}
		if Expired(tok, time.Now()) {
			zap.L().Debug("token: cookie token expired", zap.String("url", u))
			continue
		}
		return tok, nil
	}
	return "", ErrNoToken
}

// tokenPair mirrors the cookie's JSON payload.
type tokenPair struct {
	AccessOrWorkspaceAgnosticToken struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	} `json:"accessOrWorkspaceAgnosticToken"`
}

// ParseTokenPair extracts the access token from a (possibly URL-encoded)
// tokenPair cookie value.
func ParseTokenPair(cookieValue string) (string, error) {
	if decoded, err := url.QueryUnescape(cookieValue); err == nil {
		cookieValue = decoded
	}
	var pair tokenPair
	if err := json.Unmarshal([]byte(cookieValue), &pair); err != nil {
		return "", eris.Wrap(err, "token: parse tokenPair cookie")
	}
	if pair.AccessOrWorkspaceAgnosticToken.Token == "" {
		return "", eris.New("token: tokenPair cookie has no access token")
	}
	return pair.AccessOrWorkspaceAgnosticToken.Token, nil
}

// Expired reports whether the JWT's exp claim has passed. Claims are
// decoded without signature verification; the CRM verifies signatures.
// Tokens that are not parseable JWTs are treated as unexpired and left for
// the server to judge.
func Expired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// alternateHost flips the www prefix on the URL's host: with it when
// absent, without it when present. Scheme-less values are flipped on the
// leading host label.
func alternateHost(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "://www."):
		return strings.Replace(rawURL, "://www.", "://", 1)
	case strings.Contains(rawURL, "://"):
		return strings.Replace(rawURL, "://", "://www.", 1)
	case strings.HasPrefix(rawURL, "www."):
		return strings.TrimPrefix(rawURL, "www.")
	case rawURL != "":
		return "www." + rawURL
	}
	return ""
}
