// Package resolve decides whether a scraped entity already has a
// corresponding CRM record, and by which signal it matched.
package resolve

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/pkg/twenty"
)

// IndeterminateError marks a duplicate check whose final lookup strategy
// failed, so "not found" could not be confirmed. Callers must distinguish
// this from a confirmed absence.
type IndeterminateError struct {
	Err error
}

func (e *IndeterminateError) Error() string {
	return "resolve: duplicate check indeterminate: " + e.Err.Error()
}

func (e *IndeterminateError) Unwrap() error {
	return e.Err
}

// IsIndeterminate reports whether err (or its chain) marks an indeterminate
// duplicate check.
func IsIndeterminate(err error) bool {
	var ie *IndeterminateError
	return errors.As(err, &ie)
}

// Matcher runs an ordered set of lookup strategies against the CRM and
// reports the first confident match. Strategy failures are logged and
// swallowed so one broken lookup does not abort the fallback chain; only a
// failure of the final strategy makes the overall check indeterminate.
type Matcher struct {
	client twenty.Client
}

// NewMatcher creates a matcher over the given CRM client.
func NewMatcher(client twenty.Client) *Matcher {
	return &Matcher{client: client}
}

// MatchPerson checks for an existing person record, by source link first,
// then by name when both first and last name are present.
func (m *Matcher) MatchPerson(ctx context.Context, p model.Person) (model.MatchResult, error) {
	var lastErr error

	if p.SourceURL != "" {
		person, err := m.client.FindPersonBySourceURL(ctx, NormalizeSourceURL(p.SourceURL))
		if err != nil {
			zap.L().Warn("match: person source-url lookup failed", zap.Error(err))
			lastErr = err
		} else if person != nil {
			zap.L().Debug("match: person matched by source url",
				zap.String("record_id", person.ID),
			)
			return matched(person.ID, model.KindPerson, model.MatchedBySourceURL), nil
		} else {
			lastErr = nil
		}
	}

	first, last := CleanName(p.FirstName), CleanName(p.LastName)
	if first != "" && last != "" {
		person, err := m.client.FindPersonByName(ctx, first, last)
		if err != nil {
			zap.L().Warn("match: person name lookup failed", zap.Error(err))
			lastErr = err
		} else if person != nil {
			zap.L().Debug("match: person matched by name",
				zap.String("record_id", person.ID),
			)
			return matched(person.ID, model.KindPerson, model.MatchedByName), nil
		} else {
			lastErr = nil
		}
	}

	if lastErr != nil {
		return model.MatchResult{}, &IndeterminateError{Err: lastErr}
	}
	return model.MatchResult{}, nil
}

// MatchOrganization checks for an existing company record: source link,
// then domain (when a website is available), then name.
func (m *Matcher) MatchOrganization(ctx context.Context, o model.Organization) (model.MatchResult, error) {
	var lastErr error

	if o.SourceURL != "" {
		company, err := m.client.FindCompanyBySourceURL(ctx, NormalizeSourceURL(o.SourceURL))
		if err != nil {
			zap.L().Warn("match: company source-url lookup failed", zap.Error(err))
			lastErr = err
		} else if company != nil {
			return matched(company.ID, model.KindOrganization, model.MatchedBySourceURL), nil
		} else {
			lastErr = nil
		}
	}

	if domain := ExtractRootDomain(o.Website); domain != "" {
		company, err := m.client.FindCompanyByDomain(ctx, domain)
		if err != nil {
			zap.L().Warn("match: company domain lookup failed",
				zap.String("domain", domain), zap.Error(err))
			lastErr = err
		} else if company != nil {
			return matched(company.ID, model.KindOrganization, model.MatchedByDomain), nil
		} else {
			lastErr = nil
		}
	}

	if name := CleanName(o.Name); name != "" {
		company, err := m.client.FindCompanyByName(ctx, name)
		if err != nil {
			zap.L().Warn("match: company name lookup failed", zap.Error(err))
			lastErr = err
		} else if company != nil {
			return matched(company.ID, model.KindOrganization, model.MatchedByName), nil
		} else {
			lastErr = nil
		}
	}

	if lastErr != nil {
		return model.MatchResult{}, &IndeterminateError{Err: lastErr}
	}
	return model.MatchResult{}, nil
}

// MatchOrganizationByDomain checks for an existing company by web domain
// alone. This is the degraded path for pages with no company profile.
func (m *Matcher) MatchOrganizationByDomain(ctx context.Context, domain string) (model.MatchResult, error) {
	normalized := NormalizeDomain(domain)
	company, err := m.client.FindCompanyByDomain(ctx, normalized)
	if err != nil {
		zap.L().Warn("match: domain-only lookup failed",
			zap.String("domain", normalized), zap.Error(err))
		return model.MatchResult{}, &IndeterminateError{Err: err}
	}
	if company != nil {
		return matched(company.ID, model.KindOrganization, model.MatchedByDomain), nil
	}
	return model.MatchResult{}, nil
}

func matched(id string, kind model.EntityKind, by model.MatchStrategy) model.MatchResult {
	return model.MatchResult{
		Found:      true,
		RecordID:   id,
		RecordKind: kind,
		MatchedBy:  by,
	}
}
