package model

// EntityKind discriminates the scraped entity union.
type EntityKind string

const (
	KindPerson       EntityKind = "person"
	KindOrganization EntityKind = "company"
)

// Person holds the fields scraped from a profile page. Only SourceURL,
// FirstName and LastName are guaranteed; everything else is best-effort.
type Person struct {
	SourceURL          string `json:"sourceUrl"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Headline           string `json:"headline,omitempty"`
	CurrentCompanyName string `json:"currentCompanyName,omitempty"`
	CurrentCompanyURL  string `json:"currentCompanyUrl,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
	Location           string `json:"location,omitempty"`
}

// FullName returns "First Last" for display and ledger entries.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Organization holds the fields scraped from a company page.
type Organization struct {
	SourceURL         string `json:"sourceUrl"`
	Name              string `json:"name"`
	Website           string `json:"website,omitempty"`
	Industry          string `json:"industry,omitempty"`
	EmployeeCountText string `json:"employeeCountText,omitempty"`
	LogoURL           string `json:"logoUrl,omitempty"`
	Description       string `json:"description,omitempty"`
}

// DomainOrganization is the degraded organization variant keyed by web
// domain, used when no profile page is available for the company.
type DomainOrganization struct {
	Domain string `json:"domain"`
	Name   string `json:"name,omitempty"`
}

// ScrapedEntity is the closed union over the three scraped shapes. Exactly
// one of the pointers is non-nil; Kind reports which.
type ScrapedEntity struct {
	Person       *Person             `json:"person,omitempty"`
	Organization *Organization       `json:"organization,omitempty"`
	ByDomain     *DomainOrganization `json:"byDomain,omitempty"`
}

// Kind returns the discriminant for the populated variant.
func (e ScrapedEntity) Kind() EntityKind {
	if e.Person != nil {
		return KindPerson
	}
	return KindOrganization
}

// SourceURL returns the scraped profile URL, or "" for domain-only entities.
func (e ScrapedEntity) SourceURL() string {
	switch {
	case e.Person != nil:
		return e.Person.SourceURL
	case e.Organization != nil:
		return e.Organization.SourceURL
	}
	return ""
}

// DisplayName returns the human-readable name for the entity.
func (e ScrapedEntity) DisplayName() string {
	switch {
	case e.Person != nil:
		return e.Person.FullName()
	case e.Organization != nil:
		return e.Organization.Name
	case e.ByDomain != nil:
		if e.ByDomain.Name != "" {
			return e.ByDomain.Name
		}
		return e.ByDomain.Domain
	}
	return ""
}
