package twenty

import "encoding/json"

// Links mirrors Twenty's composite link field (primaryLinkUrl,
// primaryLinkLabel, secondaryLinks).
type Links struct {
	PrimaryLinkURL   string `json:"primaryLinkUrl,omitempty"`
	PrimaryLinkLabel string `json:"primaryLinkLabel,omitempty"`
}

// PersonName is Twenty's composite name field.
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CompanyRef is the minimal company projection returned on person records.
type CompanyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Person is Twenty's person record as selected by this client's queries.
type Person struct {
	ID           string      `json:"id"`
	Name         PersonName  `json:"name"`
	LinkedinLink *Links      `json:"linkedinLink,omitempty"`
	JobTitle     string      `json:"jobTitle,omitempty"`
	AvatarURL    string      `json:"avatarUrl,omitempty"`
	City         string      `json:"city,omitempty"`
	Company      *CompanyRef `json:"company,omitempty"`
}

// Company is Twenty's company record as selected by this client's queries.
type Company struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LinkedinLink *Links `json:"linkedinLink,omitempty"`
	DomainName   *Links `json:"domainName,omitempty"`
	Employees    *int   `json:"employees,omitempty"`
}

// PersonInput is the payload for createPerson/updatePerson mutations.
type PersonInput struct {
	Name         PersonName `json:"name"`
	LinkedinLink *Links     `json:"linkedinLink,omitempty"`
	JobTitle     string     `json:"jobTitle,omitempty"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	City         string     `json:"city,omitempty"`
	CompanyID    string     `json:"companyId,omitempty"`
}

// CompanyInput is the payload for createCompany/updateCompany mutations.
type CompanyInput struct {
	Name         string `json:"name"`
	LinkedinLink *Links `json:"linkedinLink,omitempty"`
	DomainName   *Links `json:"domainName,omitempty"`
	Employees    *int   `json:"employees,omitempty"`
}

// SearchResult is a flattened hit from SearchPeople/SearchCompanies.
type SearchResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	Type     string `json:"type"`
}

// graphQLError is one entry of the GraphQL errors array. Only the first
// message is ever inspected for control decisions.
type graphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Connection envelopes for the relay-style people/companies queries.

type personEdge struct {
	Node Person `json:"node"`
}

type peopleData struct {
	People struct {
		Edges []personEdge `json:"edges"`
	} `json:"people"`
}

type companyEdge struct {
	Node Company `json:"node"`
}

type companiesData struct {
	Companies struct {
		Edges []companyEdge `json:"edges"`
	} `json:"companies"`
}
