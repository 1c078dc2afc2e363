package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapedEntityKind(t *testing.T) {
	assert.Equal(t, KindPerson, ScrapedEntity{Person: &Person{}}.Kind())
	assert.Equal(t, KindOrganization, ScrapedEntity{Organization: &Organization{}}.Kind())
	assert.Equal(t, KindOrganization, ScrapedEntity{ByDomain: &DomainOrganization{}}.Kind())
}

func TestScrapedEntityDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", ScrapedEntity{Person: &Person{FirstName: "Jane", LastName: "Doe"}}.DisplayName())
	assert.Equal(t, "Acme", ScrapedEntity{Organization: &Organization{Name: "Acme"}}.DisplayName())
	assert.Equal(t, "Acme Corp", ScrapedEntity{ByDomain: &DomainOrganization{Domain: "acme.com", Name: "Acme Corp"}}.DisplayName())
	assert.Equal(t, "acme.com", ScrapedEntity{ByDomain: &DomainOrganization{Domain: "acme.com"}}.DisplayName())
}

func TestScrapedEntityJSONRoundTrip(t *testing.T) {
	raw := []byte(`{"person":{"sourceUrl":"https://www.linkedin.com/in/jane-doe","firstName":"Jane","lastName":"Doe"}}`)
	var e ScrapedEntity
	require.NoError(t, json.Unmarshal(raw, &e))
	require.NotNil(t, e.Person)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", e.SourceURL())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "organization")
}
