// Package twentytest provides a test double for the twenty.Client
// interface. Each method delegates to an optional function field; unset
// methods report no match and no error.
package twentytest

import (
	"context"

	"github.com/neilk17/twenty-capture/pkg/twenty"
)

// Fake implements twenty.Client via overridable function fields.
type Fake struct {
	TestConnectionFn func(ctx context.Context) error

	FindPersonBySourceURLFn func(ctx context.Context, sourceURL string) (*twenty.Person, error)
	FindPersonByNameFn      func(ctx context.Context, firstName, lastName string) (*twenty.Person, error)
	SearchPeopleFn          func(ctx context.Context, query string) ([]twenty.SearchResult, error)
	CreatePersonFn          func(ctx context.Context, input twenty.PersonInput) (*twenty.Person, error)
	UpdatePersonFn          func(ctx context.Context, id string, input twenty.PersonInput) (*twenty.Person, error)

	FindCompanyBySourceURLFn func(ctx context.Context, sourceURL string) (*twenty.Company, error)
	FindCompanyByDomainFn    func(ctx context.Context, domain string) (*twenty.Company, error)
	FindCompanyByNameFn      func(ctx context.Context, name string) (*twenty.Company, error)
	SearchCompaniesFn        func(ctx context.Context, query string) ([]twenty.SearchResult, error)
	CreateCompanyFn          func(ctx context.Context, input twenty.CompanyInput) (*twenty.Company, error)
	UpdateCompanyFn          func(ctx context.Context, id string, input twenty.CompanyInput) (*twenty.Company, error)

	UploadImageFn func(ctx context.Context, imageURL, filename string) string
}

var _ twenty.Client = (*Fake)(nil)

func (f *Fake) TestConnection(ctx context.Context) error {
	if f.TestConnectionFn != nil {
		return f.TestConnectionFn(ctx)
	}
	return nil
}

func (f *Fake) FindPersonBySourceURL(ctx context.Context, sourceURL string) (*twenty.Person, error) {
	if f.FindPersonBySourceURLFn != nil {
		return f.FindPersonBySourceURLFn(ctx, sourceURL)
	}
	return nil, nil
}

func (f *Fake) FindPersonByName(ctx context.Context, firstName, lastName string) (*twenty.Person, error) {
	if f.FindPersonByNameFn != nil {
		return f.FindPersonByNameFn(ctx, firstName, lastName)
	}
	return nil, nil
}

func (f *Fake) SearchPeople(ctx context.Context, query string) ([]twenty.SearchResult, error) {
	if f.SearchPeopleFn != nil {
		return f.SearchPeopleFn(ctx, query)
	}
	return nil, nil
}

func (f *Fake) CreatePerson(ctx context.Context, input twenty.PersonInput) (*twenty.Person, error) {
	if f.CreatePersonFn != nil {
		return f.CreatePersonFn(ctx, input)
	}
	return &twenty.Person{ID: "person-fake", Name: input.Name}, nil
}

func (f *Fake) UpdatePerson(ctx context.Context, id string, input twenty.PersonInput) (*twenty.Person, error) {
	if f.UpdatePersonFn != nil {
		return f.UpdatePersonFn(ctx, id, input)
	}
	return &twenty.Person{ID: id, Name: input.Name}, nil
}

func (f *Fake) FindCompanyBySourceURL(ctx context.Context, sourceURL string) (*twenty.Company, error) {
	if f.FindCompanyBySourceURLFn != nil {
		return f.FindCompanyBySourceURLFn(ctx, sourceURL)
	}
	return nil, nil
}

func (f *Fake) FindCompanyByDomain(ctx context.Context, domain string) (*twenty.Company, error) {
	if f.FindCompanyByDomainFn != nil {
		return f.FindCompanyByDomainFn(ctx, domain)
	}
	return nil, nil
}

func (f *Fake) FindCompanyByName(ctx context.Context, name string) (*twenty.Company, error) {
	if f.FindCompanyByNameFn != nil {
		return f.FindCompanyByNameFn(ctx, name)
	}
	return nil, nil
}

func (f *Fake) SearchCompanies(ctx context.Context, query string) ([]twenty.SearchResult, error) {
	if f.SearchCompaniesFn != nil {
		return f.SearchCompaniesFn(ctx, query)
	}
	return nil, nil
}

func (f *Fake) CreateCompany(ctx context.Context, input twenty.CompanyInput) (*twenty.Company, error) {
	if f.CreateCompanyFn != nil {
		return f.CreateCompanyFn(ctx, input)
	}
	return &twenty.Company{ID: "company-fake", Name: input.Name}, nil
}

func (f *Fake) UpdateCompany(ctx context.Context, id string, input twenty.CompanyInput) (*twenty.Company, error) {
	if f.UpdateCompanyFn != nil {
		return f.UpdateCompanyFn(ctx, id, input)
	}
	return &twenty.Company{ID: id, Name: input.Name}, nil
}

func (f *Fake) UploadImage(ctx context.Context, imageURL, filename string) string {
	if f.UploadImageFn != nil {
		return f.UploadImageFn(ctx, imageURL, filename)
	}
	return ""
}
