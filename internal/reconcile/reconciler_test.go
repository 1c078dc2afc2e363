package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/store"
	"github.com/neilk17/twenty-capture/pkg/twenty"
	"github.com/neilk17/twenty-capture/pkg/twenty/twentytest"
)

func TestCreatePersonResolvesCompanyAndAvatar(t *testing.T) {
	var gotInput twenty.PersonInput
	fake := &twentytest.Fake{
		FindCompanyByNameFn: func(_ context.Context, name string) (*twenty.Company, error) {
			assert.Equal(t, "Acme", name)
			return &twenty.Company{ID: "c-1", Name: "Acme"}, nil
		},
		UploadImageFn: func(_ context.Context, imageURL, filename string) string {
			assert.Equal(t, "https://cdn.example.com/jane.jpg", imageURL)
			assert.Equal(t, "Jane-Doe-profile.jpg", filename)
			return "images/hosted.jpg"
		},
		CreatePersonFn: func(_ context.Context, input twenty.PersonInput) (*twenty.Person, error) {
			gotInput = input
			return &twenty.Person{ID: "p-1", Name: input.Name}, nil
		},
	}
	ledger := store.NewMemory()

	r := NewReconciler(fake, ledger)
	person, err := r.CreatePerson(context.Background(), model.Person{
		SourceURL:          "https://www.linkedin.com/in/jane-doe?utm=x",
		FirstName:          "Jane",
		LastName:           "Doe",
		Headline:           "CTO at Acme",
		CurrentCompanyName: "Acme",
		ImageURL:           "https://cdn.example.com/jane.jpg",
		Location:           "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", person.ID)

	assert.Equal(t, "Jane", gotInput.Name.FirstName)
	assert.Equal(t, "c-1", gotInput.CompanyID)
	assert.Equal(t, "images/hosted.jpg", gotInput.AvatarURL)
	assert.Equal(t, "Berlin", gotInput.City)
	require.NotNil(t, gotInput.LinkedinLink)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", gotInput.LinkedinLink.PrimaryLinkURL)

	entries, err := ledger.ListCaptures(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", entries[0].SourceKey)
	assert.Equal(t, "Jane Doe", entries[0].DisplayName)
	assert.Equal(t, "p-1", entries[0].RemoteID)
}

func TestCreatePersonCreatesMissingCompany(t *testing.T) {
	var createdCompany bool
	fake := &twentytest.Fake{
		FindCompanyByNameFn: func(context.Context, string) (*twenty.Company, error) {
			return nil, nil
		},
		CreateCompanyFn: func(_ context.Context, input twenty.CompanyInput) (*twenty.Company, error) {
			createdCompany = true
			assert.Equal(t, "Acme", input.Name)
			assert.Nil(t, input.DomainName)
			return &twenty.Company{ID: "c-new", Name: input.Name}, nil
		},
	}

	var gotInput twenty.PersonInput
	fake.CreatePersonFn = func(_ context.Context, input twenty.PersonInput) (*twenty.Person, error) {
		gotInput = input
		return &twenty.Person{ID: "p-1"}, nil
	}

	r := NewReconciler(fake, store.NewMemory())
	_, err := r.CreatePerson(context.Background(), model.Person{
		SourceURL:          "https://www.linkedin.com/in/jane-doe",
		FirstName:          "Jane",
		LastName:           "Doe",
		CurrentCompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.True(t, createdCompany)
	assert.Equal(t, "c-new", gotInput.CompanyID)
}

func TestCreatePersonCompanyFailureIsSoft(t *testing.T) {
	fake := &twentytest.Fake{
		FindCompanyByNameFn: func(context.Context, string) (*twenty.Company, error) {
			return nil, &twenty.Error{Kind: twenty.KindServerError, Message: "down"}
		},
	}
	var gotInput twenty.PersonInput
	fake.CreatePersonFn = func(_ context.Context, input twenty.PersonInput) (*twenty.Person, error) {
		gotInput = input
		return &twenty.Person{ID: "p-1"}, nil
	}

	r := NewReconciler(fake, store.NewMemory())
	_, err := r.CreatePerson(context.Background(), model.Person{
		SourceURL:          "https://www.linkedin.com/in/jane-doe",
		FirstName:          "Jane",
		LastName:           "Doe",
		CurrentCompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Empty(t, gotInput.CompanyID)
}

func TestCreatePersonAvatarFallsBackToExternalURL(t *testing.T) {
	var gotInput twenty.PersonInput
	fake := &twentytest.Fake{
		UploadImageFn: func(context.Context, string, string) string { return "" },
		CreatePersonFn: func(_ context.Context, input twenty.PersonInput) (*twenty.Person, error) {
			gotInput = input
			return &twenty.Person{ID: "p-1"}, nil
		},
	}

	r := NewReconciler(fake, store.NewMemory())
	_, err := r.CreatePerson(context.Background(), model.Person{
		SourceURL: "https://www.linkedin.com/in/jane-doe",
		FirstName: "Jane",
		LastName:  "Doe",
		ImageURL:  "https://cdn.example.com/jane.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/jane.jpg", gotInput.AvatarURL)
}

func TestCreatePersonFailureIsFatal(t *testing.T) {
	fake := &twentytest.Fake{
		CreatePersonFn: func(context.Context, twenty.PersonInput) (*twenty.Person, error) {
			return nil, &twenty.Error{Kind: twenty.KindAuthFailed, Message: "rejected"}
		},
	}
	ledger := store.NewMemory()

	r := NewReconciler(fake, ledger)
	_, err := r.CreatePerson(context.Background(), model.Person{
		SourceURL: "https://www.linkedin.com/in/jane-doe",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.Error(t, err)
	assert.Equal(t, twenty.KindAuthFailed, twenty.KindOf(err))

	entries, err := ledger.ListCaptures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateOrganization(t *testing.T) {
	var gotInput twenty.CompanyInput
	fake := &twentytest.Fake{
		CreateCompanyFn: func(_ context.Context, input twenty.CompanyInput) (*twenty.Company, error) {
			gotInput = input
			return &twenty.Company{ID: "c-1", Name: input.Name}, nil
		},
	}
	ledger := store.NewMemory()

	r := NewReconciler(fake, ledger)
	company, err := r.CreateOrganization(context.Background(), model.Organization{
		SourceURL:         "https://www.linkedin.com/company/acme?ref=nav",
		Name:              "Acme",
		Website:           "https://www.acme.com",
		EmployeeCountText: "1,001-5,000 employees",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", company.ID)

	assert.Equal(t, "Acme", gotInput.Name)
	require.NotNil(t, gotInput.LinkedinLink)
	assert.Equal(t, "https://www.linkedin.com/company/acme", gotInput.LinkedinLink.PrimaryLinkURL)
	assert.Equal(t, "LinkedIn", gotInput.LinkedinLink.PrimaryLinkLabel)
	require.NotNil(t, gotInput.DomainName)
	assert.Equal(t, "https://www.acme.com", gotInput.DomainName.PrimaryLinkURL)
	require.NotNil(t, gotInput.Employees)
	assert.Equal(t, 1001, *gotInput.Employees)

	entries, err := ledger.ListCaptures(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.KindOrganization, entries[0].Kind)
}

func TestCreateOrganizationByDomain(t *testing.T) {
	t.Run("name defaults to domain", func(t *testing.T) {
		var gotInput twenty.CompanyInput
		fake := &twentytest.Fake{
			CreateCompanyFn: func(_ context.Context, input twenty.CompanyInput) (*twenty.Company, error) {
				gotInput = input
				return &twenty.Company{ID: "c-1", Name: input.Name}, nil
			},
		}
		ledger := store.NewMemory()

		r := NewReconciler(fake, ledger)
		_, err := r.CreateOrganizationByDomain(context.Background(), model.DomainOrganization{
			Domain: "https://www.Acme.com/about",
		})
		require.NoError(t, err)

		assert.Equal(t, "acme.com", gotInput.Name)
		require.NotNil(t, gotInput.DomainName)
		assert.Equal(t, "https://acme.com", gotInput.DomainName.PrimaryLinkURL)

		entries, err := ledger.ListCaptures(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "domain:acme.com", entries[0].SourceKey)
	})

	t.Run("explicit name kept", func(t *testing.T) {
		var gotInput twenty.CompanyInput
		fake := &twentytest.Fake{
			CreateCompanyFn: func(_ context.Context, input twenty.CompanyInput) (*twenty.Company, error) {
				gotInput = input
				return &twenty.Company{ID: "c-1", Name: input.Name}, nil
			},
		}

		r := NewReconciler(fake, store.NewMemory())
		_, err := r.CreateOrganizationByDomain(context.Background(), model.DomainOrganization{
			Domain: "acme.com",
			Name:   "Acme Corp",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", gotInput.Name)
	})
}

func TestUpdateRecord(t *testing.T) {
	t.Run("person reuses existing company", func(t *testing.T) {
		var updatedID string
		var gotInput twenty.PersonInput
		fake := &twentytest.Fake{
			FindCompanyByNameFn: func(context.Context, string) (*twenty.Company, error) {
				return &twenty.Company{ID: "c-1", Name: "Acme"}, nil
			},
			CreateCompanyFn: func(context.Context, twenty.CompanyInput) (*twenty.Company, error) {
				t.Fatal("update with an existing company must not create another")
				return nil, nil
			},
			UpdatePersonFn: func(_ context.Context, id string, input twenty.PersonInput) (*twenty.Person, error) {
				updatedID = id
				gotInput = input
				return &twenty.Person{ID: id}, nil
			},
		}

		r := NewReconciler(fake, store.NewMemory())
		err := r.UpdateRecord(context.Background(), "p-9", model.ScrapedEntity{Person: &model.Person{
			SourceURL:          "https://www.linkedin.com/in/jane-doe",
			FirstName:          "Jane",
			LastName:           "Doe",
			CurrentCompanyName: "Acme",
		}})
		require.NoError(t, err)
		assert.Equal(t, "p-9", updatedID)
		assert.Equal(t, "c-1", gotInput.CompanyID)
	})

	t.Run("company", func(t *testing.T) {
		var updatedID string
		fake := &twentytest.Fake{
			UpdateCompanyFn: func(_ context.Context, id string, input twenty.CompanyInput) (*twenty.Company, error) {
				updatedID = id
				return &twenty.Company{ID: id, Name: input.Name}, nil
			},
		}

		r := NewReconciler(fake, store.NewMemory())
		err := r.UpdateRecord(context.Background(), "c-9", model.ScrapedEntity{Organization: &model.Organization{
			SourceURL: "https://www.linkedin.com/company/acme",
			Name:      "Acme",
		}})
		require.NoError(t, err)
		assert.Equal(t, "c-9", updatedID)
	})

	t.Run("domain entity rejected", func(t *testing.T) {
		r := NewReconciler(&twentytest.Fake{}, store.NewMemory())
		err := r.UpdateRecord(context.Background(), "x", model.ScrapedEntity{ByDomain: &model.DomainOrganization{Domain: "acme.com"}})
		require.Error(t, err)
	})
}
