package twenty

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// FindCompanyBySourceURL looks up a company whose stored profile link
// contains the identifier extracted from sourceURL.
func (c *httpClient) FindCompanyBySourceURL(ctx context.Context, sourceURL string) (*Company, error) {
	slug := ProfileSlug(sourceURL)

	var data companiesData
	err := c.execute(ctx, queryFindCompanyByLink, map[string]any{
		"filter": map[string]any{
			"linkedinLink": map[string]any{
				"primaryLinkUrl": map[string]any{"ilike": ilike(slug)},
			},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: find company by source url")
	}
	if len(data.Companies.Edges) == 0 {
		return nil, nil
	}
	co := data.Companies.Edges[0].Node
	return &co, nil
}

// FindCompanyByDomain looks up a company by web domain. Candidates whose
// stored domain normalizes to exactly the given domain are preferred over
// partial substring hits.
func (c *httpClient) FindCompanyByDomain(ctx context.Context, domain string) (*Company, error) {
	normalized := stripDomain(domain)

	var data companiesData
	err := c.execute(ctx, queryFindCompanyByDomain, map[string]any{
		"filter": map[string]any{
			"domainName": map[string]any{
				"primaryLinkUrl": map[string]any{"ilike": ilike(normalized)},
			},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: find company by domain")
	}
	if len(data.Companies.Edges) == 0 {
		return nil, nil
	}

	for _, edge := range data.Companies.Edges {
		if edge.Node.DomainName == nil {
			continue
		}
		if stripDomain(edge.Node.DomainName.PrimaryLinkURL) == normalized {
			co := edge.Node
			return &co, nil
		}
	}
	co := data.Companies.Edges[0].Node
	return &co, nil
}

// FindCompanyByName looks up a company by name, preferring an exact
// case-insensitive match over the first partial candidate.
func (c *httpClient) FindCompanyByName(ctx context.Context, name string) (*Company, error) {
	var data companiesData
	err := c.execute(ctx, queryFindCompanyByName, map[string]any{
		"filter": map[string]any{
			"name": map[string]any{"ilike": ilike(name)},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: find company by name")
	}
	if len(data.Companies.Edges) == 0 {
		return nil, nil
	}

	for _, edge := range data.Companies.Edges {
		if strings.EqualFold(edge.Node.Name, name) {
			co := edge.Node
			return &co, nil
		}
	}
	co := data.Companies.Edges[0].Node
	return &co, nil
}

// SearchCompanies returns up to 10 companies whose name contains query.
// Subtitle carries the stored domain when present.
func (c *httpClient) SearchCompanies(ctx context.Context, query string) ([]SearchResult, error) {
	var data companiesData
	err := c.execute(ctx, querySearchCompanies, map[string]any{
		"filter": map[string]any{
			"name": map[string]any{"ilike": ilike(query)},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: search companies")
	}

	results := make([]SearchResult, 0, len(data.Companies.Edges))
	for _, edge := range data.Companies.Edges {
		var subtitle string
		if edge.Node.DomainName != nil {
			subtitle = edge.Node.DomainName.PrimaryLinkURL
		}
		results = append(results, SearchResult{
			ID:       edge.Node.ID,
			Name:     edge.Node.Name,
			Subtitle: subtitle,
			Type:     "company",
		})
	}
	return results, nil
}

// CreateCompany creates a company record.
func (c *httpClient) CreateCompany(ctx context.Context, input CompanyInput) (*Company, error) {
	var data struct {
		CreateCompany *Company `json:"createCompany"`
	}
	err := c.execute(ctx, mutationCreateCompany, map[string]any{"input": input}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: create company")
	}
	if data.CreateCompany == nil {
		return nil, graphQLErr("createCompany returned no record")
	}
	return data.CreateCompany, nil
}

// UpdateCompany updates an existing company record.
func (c *httpClient) UpdateCompany(ctx context.Context, id string, input CompanyInput) (*Company, error) {
	var data struct {
		UpdateCompany *Company `json:"updateCompany"`
	}
	err := c.execute(ctx, mutationUpdateCompany, map[string]any{"id": id, "input": input}, &data)
	if err != nil {
		return nil, eris.Wrapf(err, "twenty: update company %s", id)
	}
	if data.UpdateCompany == nil {
		return nil, graphQLErr("updateCompany returned no record")
	}
	return data.UpdateCompany, nil
}

// stripDomain lowercases a domain and drops protocol and www prefix so
// stored and scraped domains compare equal.
func stripDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	d = strings.TrimSuffix(d, "/")
	return d
}
