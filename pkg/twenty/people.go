package twenty

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// FindPersonBySourceURL looks up a person whose stored profile link contains
// the identifier extracted from sourceURL.
func (c *httpClient) FindPersonBySourceURL(ctx context.Context, sourceURL string) (*Person, error) {
	slug := ProfileSlug(sourceURL)

	var data peopleData
	err := c.execute(ctx, queryFindPersonByLink, map[string]any{
		"filter": map[string]any{
			"linkedinLink": map[string]any{
				"primaryLinkUrl": map[string]any{"ilike": ilike(slug)},
			},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: find person by source url")
	}
	if len(data.People.Edges) == 0 {
		return nil, nil
	}
	p := data.People.Edges[0].Node
	return &p, nil
}

// FindPersonByName looks up a person by first and last name. Among the
// returned candidates an exact case-insensitive match on both names is
// preferred; failing that, the first partial candidate is returned. This
// tie-break is deterministic for a given result set.
func (c *httpClient) FindPersonByName(ctx context.Context, firstName, lastName string) (*Person, error) {
	var data peopleData
	err := c.execute(ctx, queryFindPersonByName, map[string]any{
		"filter": map[string]any{
			"and": []map[string]any{
				{"name": map[string]any{"firstName": map[string]any{"ilike": ilike(firstName)}}},
				{"name": map[string]any{"lastName": map[string]any{"ilike": ilike(lastName)}}},
			},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: find person by name")
	}
	if len(data.People.Edges) == 0 {
		return nil, nil
	}

	for _, edge := range data.People.Edges {
		if strings.EqualFold(edge.Node.Name.FirstName, firstName) &&
			strings.EqualFold(edge.Node.Name.LastName, lastName) {
			p := edge.Node
			return &p, nil
		}
	}
	p := data.People.Edges[0].Node
	return &p, nil
}

// SearchPeople returns up to 10 people whose first or last name contains
// query. Subtitle carries the job title, or the company name when no title
// is set.
func (c *httpClient) SearchPeople(ctx context.Context, query string) ([]SearchResult, error) {
	var data peopleData
	err := c.execute(ctx, querySearchPeople, map[string]any{
		"filter": map[string]any{
			"or": []map[string]any{
				{"name": map[string]any{"firstName": map[string]any{"ilike": ilike(query)}}},
				{"name": map[string]any{"lastName": map[string]any{"ilike": ilike(query)}}},
			},
		},
	}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: search people")
	}

	results := make([]SearchResult, 0, len(data.People.Edges))
	for _, edge := range data.People.Edges {
		subtitle := edge.Node.JobTitle
		if subtitle == "" && edge.Node.Company != nil {
			subtitle = edge.Node.Company.Name
		}
		results = append(results, SearchResult{
			ID:       edge.Node.ID,
			Name:     edge.Node.Name.FirstName + " " + edge.Node.Name.LastName,
			Subtitle: subtitle,
			Type:     "person",
		})
	}
	return results, nil
}

// CreatePerson creates a person record.
func (c *httpClient) CreatePerson(ctx context.Context, input PersonInput) (*Person, error) {
	var data struct {
		CreatePerson *Person `json:"createPerson"`
	}
	err := c.execute(ctx, mutationCreatePerson, map[string]any{"input": input}, &data)
	if err != nil {
		return nil, eris.Wrap(err, "twenty: create person")
	}
	if data.CreatePerson == nil {
		return nil, graphQLErr("createPerson returned no record")
	}
	return data.CreatePerson, nil
}

// UpdatePerson updates an existing person record.
func (c *httpClient) UpdatePerson(ctx context.Context, id string, input PersonInput) (*Person, error) {
	var data struct {
		UpdatePerson *Person `json:"updatePerson"`
	}
	err := c.execute(ctx, mutationUpdatePerson, map[string]any{"id": id, "input": input}, &data)
	if err != nil {
		return nil, eris.Wrapf(err, "twenty: update person %s", id)
	}
	if data.UpdatePerson == nil {
		return nil, graphQLErr("updatePerson returned no record")
	}
	return data.UpdatePerson, nil
}
