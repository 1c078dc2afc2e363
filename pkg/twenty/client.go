// Package twenty is a typed GraphQL client for the Twenty CRM core API.
//
// A Client is cheap to construct and carries exactly one base URL/token
// pair; callers build a fresh one per logical operation from current
// settings and a freshly derived token rather than caching a configured
// client across requests.
package twenty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Twenty API operations used by the capture engine.
// Find operations return (nil, nil) when no record matches.
type Client interface {
	TestConnection(ctx context.Context) error

	FindPersonBySourceURL(ctx context.Context, sourceURL string) (*Person, error)
	FindPersonByName(ctx context.Context, firstName, lastName string) (*Person, error)
	SearchPeople(ctx context.Context, query string) ([]SearchResult, error)
	CreatePerson(ctx context.Context, input PersonInput) (*Person, error)
	UpdatePerson(ctx context.Context, id string, input PersonInput) (*Person, error)

	FindCompanyBySourceURL(ctx context.Context, sourceURL string) (*Company, error)
	FindCompanyByDomain(ctx context.Context, domain string) (*Company, error)
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
	SearchCompanies(ctx context.Context, query string) ([]SearchResult, error)
	CreateCompany(ctx context.Context, input CompanyInput) (*Company, error)
	UpdateCompany(ctx context.Context, id string, input CompanyInput) (*Company, error)

	// UploadImage fetches the image at imageURL and re-uploads it to the
	// CRM's storage, returning the server-relative path. It returns ""
	// on any failure; callers fall back to the external URL.
	UploadImage(ctx context.Context, imageURL, filename string) string
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the Twenty instance at baseURL. A trailing
// slash is stripped; reachability is not validated. The token may be empty,
// in which case every call fails with an unauthenticated error.
func NewClient(baseURL, token string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		token:   token,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// execute runs one GraphQL operation and decodes the data payload into out.
// Failures are classified: transport errors become KindUnreachable, non-2xx
// statuses map per httpStatusErr, and a non-empty GraphQL errors array
// becomes KindGraphQL carrying the first message.
func (c *httpClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.baseURL == "" {
		return notConfiguredErr()
	}
	if c.token == "" {
		return unauthenticatedErr()
	}
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "twenty: rate limit")
	}

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return eris.Wrap(err, "twenty: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "twenty: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return unreachableErr(c.baseURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpStatusErr(c.baseURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "twenty: read response body")
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return eris.Wrap(err, "twenty: decode response")
	}
	if len(envelope.Errors) > 0 {
		return graphQLErr(envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return eris.Wrap(err, "twenty: decode data")
		}
	}
	return nil
}

// TestConnection verifies the base URL and token by querying the current
// workspace. GraphQL errors that look like auth failures are reclassified
// as KindAuthFailed so the caller can prompt for a login.
func (c *httpClient) TestConnection(ctx context.Context) error {
	var data struct {
		CurrentWorkspace *struct {
			ID string `json:"id"`
		} `json:"currentWorkspace"`
	}
	if err := c.execute(ctx, queryCurrentWorkspace, nil, &data); err != nil {
		var te *Error
		if errors.As(err, &te) && te.Kind == KindGraphQL && looksLikeAuthError(te.Message) {
			return &Error{Kind: KindAuthFailed, Message: te.Message, BaseURL: c.baseURL}
		}
		return err
	}
	if data.CurrentWorkspace == nil {
		return graphQLErr("no current workspace in response")
	}
	return nil
}

func looksLikeAuthError(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "unauthorized") ||
		strings.Contains(m, "authentication") ||
		strings.Contains(m, "token")
}

var profileSlugRe = regexp.MustCompile(`linkedin\.com/(in|company)/([^/?#]+)`)

// ProfileSlug extracts the profile or company identifier from a LinkedIn
// style URL ("linkedin.com/in/<id>" or "linkedin.com/company/<id>"). The
// slug tolerates protocol, www and tracking-parameter variants on the
// stored side when used as an ilike substring key. Unrecognized URLs are
// returned unchanged.
func ProfileSlug(url string) string {
	if m := profileSlugRe.FindStringSubmatch(url); m != nil {
		return m[2]
	}
	return url
}

// ilike builds a case-insensitive substring filter value.
func ilike(value string) string {
	return "%" + value + "%"
}
