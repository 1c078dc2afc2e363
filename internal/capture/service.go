// Package capture is the engine behind every bridge operation and CLI
// command: it wires the matcher, reconciler, ledger and CRM client
// together for one logical operation at a time.
package capture

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/reconcile"
	"github.com/neilk17/twenty-capture/internal/resolve"
	"github.com/neilk17/twenty-capture/internal/store"
	"github.com/neilk17/twenty-capture/internal/token"
	"github.com/neilk17/twenty-capture/pkg/twenty"
)

// ClientFactory builds a CRM client for one base URL/token pair.
type ClientFactory func(baseURL, tok string) twenty.Client

// Service runs capture operations. Each operation reads the stored base
// URL and derives a fresh token, then builds a client used only for that
// operation; nothing is cached across requests, so a settings change never
// leaves a stale configured client behind.
type Service struct {
	store     store.Store
	tokens    token.Source
	newClient ClientFactory
}

// Option configures the Service.
type Option func(*Service)

// WithClientFactory overrides how CRM clients are constructed.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Service) {
		s.newClient = f
	}
}

// NewService creates the capture engine over the given store and token
// source.
func NewService(st store.Store, tokens token.Source, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: tokens,
		newClient: func(baseURL, tok string) twenty.Client {
			return twenty.NewClient(baseURL, tok)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithToken returns a copy of the service whose operations use the given
// bearer token instead of deriving one. The bridge uses this when the
// extension ships the cookie-derived token with the request.
func (s *Service) WithToken(tok string) *Service {
	copied := *s
	copied.tokens = token.Static(tok)
	return &copied
}

// client builds the per-operation CRM client from current settings and a
// freshly derived token.
func (s *Service) client(ctx context.Context) (twenty.Client, error) {
	baseURL, err := s.store.GetSetting(ctx, store.SettingCRMBaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "capture: read base url setting")
	}
	if baseURL == "" {
		return nil, &twenty.Error{
			Kind:    twenty.KindNotConfigured,
			Message: "Twenty URL is not configured",
		}
	}

	tok, err := s.tokens.Token(ctx, baseURL)
	if err != nil {
		if errors.Is(err, token.ErrNoToken) {
			return nil, &twenty.Error{
				Kind:    twenty.KindUnauthenticated,
				Message: "no authentication token found, log in to the Twenty instance",
				BaseURL: baseURL,
			}
		}
		return nil, eris.Wrap(err, "capture: derive token")
	}

	return s.newClient(baseURL, tok), nil
}

// CheckDuplicate reports whether the scraped entity already has a CRM
// record and by which signal it matched. A nil error with Found=false is a
// confirmed absence; an IndeterminateError means the check could not
// complete.
func (s *Service) CheckDuplicate(ctx context.Context, entity model.ScrapedEntity) (model.MatchResult, error) {
	client, err := s.client(ctx)
	if err != nil {
		return model.MatchResult{}, err
	}
	m := resolve.NewMatcher(client)

	switch {
	case entity.Person != nil:
		return m.MatchPerson(ctx, *entity.Person)
	case entity.Organization != nil:
		return m.MatchOrganization(ctx, *entity.Organization)
	case entity.ByDomain != nil:
		return m.MatchOrganizationByDomain(ctx, entity.ByDomain.Domain)
	}
	return model.MatchResult{}, eris.New("capture: empty scraped entity")
}

// CheckDuplicateByDomain is the degraded duplicate check for pages that
// expose only a web domain.
func (s *Service) CheckDuplicateByDomain(ctx context.Context, domain string) (model.MatchResult, error) {
	client, err := s.client(ctx)
	if err != nil {
		return model.MatchResult{}, err
	}
	return resolve.NewMatcher(client).MatchOrganizationByDomain(ctx, domain)
}

// CreateResult identifies the record produced by a create operation.
type CreateResult struct {
	ID   string           `json:"id"`
	Kind model.EntityKind `json:"kind"`
}

// CreateRecord creates a CRM record for the scraped entity and appends a
// ledger entry.
func (s *Service) CreateRecord(ctx context.Context, entity model.ScrapedEntity) (CreateResult, error) {
	client, err := s.client(ctx)
	if err != nil {
		return CreateResult{}, err
	}
	r := reconcile.NewReconciler(client, s.store)

	switch {
	case entity.Person != nil:
		person, err := r.CreatePerson(ctx, *entity.Person)
		if err != nil {
			return CreateResult{}, err
		}
		return CreateResult{ID: person.ID, Kind: model.KindPerson}, nil
	case entity.Organization != nil:
		company, err := r.CreateOrganization(ctx, *entity.Organization)
		if err != nil {
			return CreateResult{}, err
		}
		return CreateResult{ID: company.ID, Kind: model.KindOrganization}, nil
	case entity.ByDomain != nil:
		company, err := r.CreateOrganizationByDomain(ctx, *entity.ByDomain)
		if err != nil {
			return CreateResult{}, err
		}
		return CreateResult{ID: company.ID, Kind: model.KindOrganization}, nil
	}
	return CreateResult{}, eris.New("capture: empty scraped entity")
}

// UpdateRecord applies the scraped entity's fields to an existing record.
func (s *Service) UpdateRecord(ctx context.Context, id string, entity model.ScrapedEntity) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	return reconcile.NewReconciler(client, s.store).UpdateRecord(ctx, id, entity)
}

// Search returns records whose name matches the query.
func (s *Service) Search(ctx context.Context, query string, kind model.EntityKind) ([]twenty.SearchResult, error) {
	if kind != model.KindPerson && kind != model.KindOrganization {
		return nil, eris.Errorf("capture: unknown record kind %q", kind)
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	if kind == model.KindPerson {
		return client.SearchPeople(ctx, query)
	}
	return client.SearchCompanies(ctx, query)
}

// TestConnection verifies the configured base URL and a freshly derived
// token against the CRM.
func (s *Service) TestConnection(ctx context.Context) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	return client.TestConnection(ctx)
}

// RecentCaptures lists the capture ledger, most recent first.
func (s *Service) RecentCaptures(ctx context.Context) ([]model.CaptureEntry, error) {
	entries, err := s.store.ListCaptures(ctx)
	return entries, eris.Wrap(err, "capture: list ledger")
}

// Settings is the operator-facing settings view.
type Settings struct {
	CRMBaseURL string `json:"crmBaseUrl"`
	HasToken   bool   `json:"hasToken"`
}

// GetSettings returns the stored base URL and whether a token can
// currently be derived for it.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	baseURL, err := s.store.GetSetting(ctx, store.SettingCRMBaseURL)
	if err != nil {
		return Settings{}, eris.Wrap(err, "capture: read settings")
	}
	out := Settings{CRMBaseURL: baseURL}
	if baseURL != "" {
		if _, err := s.tokens.Token(ctx, baseURL); err == nil {
			out.HasToken = true
		}
	}
	return out, nil
}

// SaveSettings stores the CRM base URL, trimming any trailing slash.
func (s *Service) SaveSettings(ctx context.Context, baseURL string) error {
	trimmed := resolve.NormalizeSourceURL(baseURL)
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == '/' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return eris.Wrap(
		s.store.SetSetting(ctx, store.SettingCRMBaseURL, trimmed),
		"capture: save settings",
	)
}
