// Package reconcile creates or updates CRM records for scraped entities,
// resolving nested dependencies (company links, avatar re-hosting) along
// the way.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/resolve"
	"github.com/neilk17/twenty-capture/pkg/twenty"
)

// Ledger records successful captures for operator-facing history. It is
// advisory only and never consulted for duplicate decisions.
type Ledger interface {
	SaveCapture(ctx context.Context, entry model.CaptureEntry) error
}

// Reconciler composes CRM mutations with nested dependency resolution.
// Core create/update failures are fatal and typed; auxiliary failures
// (company link, image upload) degrade and continue.
type Reconciler struct {
	client twenty.Client
	ledger Ledger
}

// NewReconciler creates a reconciler over the given client and ledger.
func NewReconciler(client twenty.Client, ledger Ledger) *Reconciler {
	return &Reconciler{client: client, ledger: ledger}
}

// CreatePerson creates a person record. A present company name is resolved
// find-or-create first; a present image URL is re-hosted. Both steps are
// soft: their failure leaves the person creation intact.
func (r *Reconciler) CreatePerson(ctx context.Context, p model.Person) (*twenty.Person, error) {
	input := r.personInput(ctx, p)

	person, err := r.client.CreatePerson(ctx, input)
	if err != nil {
		return nil, eris.Wrap(err, "reconcile: create person")
	}

	r.recordCapture(ctx, model.CaptureEntry{
		SourceKey:   resolve.NormalizeSourceURL(p.SourceURL),
		DisplayName: p.FullName(),
		Kind:        model.KindPerson,
		CapturedAt:  time.Now(),
		RemoteID:    person.ID,
	})
	return person, nil
}

// CreateOrganization creates a company record from a scraped company page.
func (r *Reconciler) CreateOrganization(ctx context.Context, o model.Organization) (*twenty.Company, error) {
	company, err := r.client.CreateCompany(ctx, companyInput(o))
	if err != nil {
		return nil, eris.Wrap(err, "reconcile: create company")
	}

	r.recordCapture(ctx, model.CaptureEntry{
		SourceKey:   resolve.NormalizeSourceURL(o.SourceURL),
		DisplayName: o.Name,
		Kind:        model.KindOrganization,
		CapturedAt:  time.Now(),
		RemoteID:    company.ID,
	})
	return company, nil
}

// CreateOrganizationByDomain creates a company from a bare web domain: the
// degraded path with no source link. The name falls back to the domain
// itself and the website is synthesized from it. The ledger key is
// prefixed with "domain:" to keep it distinct from URL-based keys.
func (r *Reconciler) CreateOrganizationByDomain(ctx context.Context, d model.DomainOrganization) (*twenty.Company, error) {
	domain := resolve.NormalizeDomain(d.Domain)
	name := d.Name
	if name == "" {
		name = domain
	}

	company, err := r.client.CreateCompany(ctx, twenty.CompanyInput{
		Name: name,
		DomainName: &twenty.Links{
			PrimaryLinkURL:   "https://" + domain,
			PrimaryLinkLabel: "Website",
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "reconcile: create company for domain %s", domain)
	}

	r.recordCapture(ctx, model.CaptureEntry{
		SourceKey:   "domain:" + domain,
		DisplayName: name,
		Kind:        model.KindOrganization,
		CapturedAt:  time.Now(),
		RemoteID:    company.ID,
	})
	return company, nil
}

// UpdateRecord applies the scraped entity's fields to an existing record.
// For persons the company link is re-resolved and the avatar re-uploaded on
// every update; with identical input the remote record ends up in the same
// state and no second company is created.
func (r *Reconciler) UpdateRecord(ctx context.Context, id string, entity model.ScrapedEntity) error {
	switch {
	case entity.Person != nil:
		if _, err := r.client.UpdatePerson(ctx, id, r.personInput(ctx, *entity.Person)); err != nil {
			return eris.Wrapf(err, "reconcile: update person %s", id)
		}
		return nil
	case entity.Organization != nil:
		if _, err := r.client.UpdateCompany(ctx, id, companyInput(*entity.Organization)); err != nil {
			return eris.Wrapf(err, "reconcile: update company %s", id)
		}
		return nil
	}
	return eris.New("reconcile: update requires a scraped person or organization")
}

// personInput builds the mutation payload, resolving the company link and
// avatar. Shared by create and update so both stay field-for-field
// identical.
func (r *Reconciler) personInput(ctx context.Context, p model.Person) twenty.PersonInput {
	input := twenty.PersonInput{
		Name: twenty.PersonName{
			FirstName: resolve.CleanName(p.FirstName),
			LastName:  resolve.CleanName(p.LastName),
		},
		JobTitle: p.Headline,
		City:     p.Location,
	}
	if p.SourceURL != "" {
		input.LinkedinLink = &twenty.Links{
			PrimaryLinkURL:   resolve.NormalizeSourceURL(p.SourceURL),
			PrimaryLinkLabel: "LinkedIn",
		}
	}

	if p.CurrentCompanyName != "" {
		companyID, created, err := r.findOrCreateCompany(ctx, p.CurrentCompanyName)
		if err != nil {
			// Soft failure: the person is still created without a link.
			zap.L().Warn("reconcile: company resolution failed, continuing without link",
				zap.String("company", p.CurrentCompanyName), zap.Error(err))
		} else {
			input.CompanyID = companyID
			if created {
				zap.L().Info("reconcile: created company for person link",
					zap.String("company", p.CurrentCompanyName),
					zap.String("company_id", companyID))
			}
		}
	}

	if p.ImageURL != "" {
		filename := fmt.Sprintf("%s-%s-profile.jpg", p.FirstName, p.LastName)
		if path := r.client.UploadImage(ctx, p.ImageURL, filename); path != "" {
			input.AvatarURL = path
		} else {
			// Fall back to the external URL; a missing avatar is valid.
			input.AvatarURL = p.ImageURL
		}
	}
	return input
}

// findOrCreateCompany resolves a company by name, creating a name-only
// record when absent. Returns whether a record was created.
func (r *Reconciler) findOrCreateCompany(ctx context.Context, name string) (string, bool, error) {
	name = resolve.CleanName(name)

	existing, err := r.client.FindCompanyByName(ctx, name)
	if err != nil {
		return "", false, eris.Wrap(err, "reconcile: find company by name")
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	created, err := r.client.CreateCompany(ctx, twenty.CompanyInput{Name: name})
	if err != nil {
		return "", false, eris.Wrap(err, "reconcile: create linked company")
	}
	return created.ID, true, nil
}

// companyInput builds the mutation payload for a scraped company page.
func companyInput(o model.Organization) twenty.CompanyInput {
	input := twenty.CompanyInput{
		Name:      resolve.CleanName(o.Name),
		Employees: ParseEmployeeCount(o.EmployeeCountText),
	}
	if o.SourceURL != "" {
		input.LinkedinLink = &twenty.Links{
			PrimaryLinkURL:   resolve.NormalizeSourceURL(o.SourceURL),
			PrimaryLinkLabel: "LinkedIn",
		}
	}
	if o.Website != "" {
		input.DomainName = &twenty.Links{
			PrimaryLinkURL:   o.Website,
			PrimaryLinkLabel: "Website",
		}
	}
	return input
}

// recordCapture appends a ledger entry. Ledger failures are advisory only.
func (r *Reconciler) recordCapture(ctx context.Context, entry model.CaptureEntry) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.SaveCapture(ctx, entry); err != nil {
		zap.L().Warn("reconcile: failed to record capture",
			zap.String("source_key", entry.SourceKey), zap.Error(err))
	}
}
