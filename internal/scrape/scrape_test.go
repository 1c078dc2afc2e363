package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personHTML = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Jane Doe - CTO at Acme | LinkedIn">
  <meta property="og:image" content="https://cdn.example.com/jane.jpg">
  <title>fallback title</title>
</head>
<body></body>
</html>`

const companyHTML = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Acme Corp | LinkedIn">
  <meta property="og:description" content="Acme builds portable holes.">
  <meta property="og:image" content="https://cdn.example.com/acme-logo.jpg">
</head>
<body></body>
</html>`

func TestDetectKind(t *testing.T) {
	tests := []struct {
		url  string
		want PageKind
	}{
		{"https://www.linkedin.com/in/jane-doe", PagePerson},
		{"https://linkedin.com/company/acme", PageCompany},
		{"https://www.acme.com/about", PageOther},
		{"", PageOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.url), tt.url)
	}
}

func TestParsePerson(t *testing.T) {
	entity, err := Parse("https://www.linkedin.com/in/jane-doe?utm_source=share", strings.NewReader(personHTML))
	require.NoError(t, err)
	require.NotNil(t, entity.Person)

	p := entity.Person
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", p.SourceURL)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "CTO at Acme", p.Headline)
	assert.Equal(t, "Acme", p.CurrentCompanyName)
	assert.Equal(t, "https://cdn.example.com/jane.jpg", p.ImageURL)
}

func TestParsePersonMultiWordLastName(t *testing.T) {
	html := `<html><head><meta property="og:title" content="Ana de la Cruz - Engineer | LinkedIn"></head></html>`
	entity, err := Parse("https://www.linkedin.com/in/ana", strings.NewReader(html))
	require.NoError(t, err)
	require.NotNil(t, entity.Person)
	assert.Equal(t, "Ana", entity.Person.FirstName)
	assert.Equal(t, "de la Cruz", entity.Person.LastName)
}

func TestParsePersonFallsBackToTitleTag(t *testing.T) {
	html := `<html><head><title>John Smith - Designer | LinkedIn</title></head></html>`
	entity, err := Parse("https://www.linkedin.com/in/john", strings.NewReader(html))
	require.NoError(t, err)
	require.NotNil(t, entity.Person)
	assert.Equal(t, "John", entity.Person.FirstName)
	assert.Equal(t, "Smith", entity.Person.LastName)
	assert.Equal(t, "Designer", entity.Person.Headline)
}

func TestParseCompany(t *testing.T) {
	entity, err := Parse("https://www.linkedin.com/company/acme", strings.NewReader(companyHTML))
	require.NoError(t, err)
	require.NotNil(t, entity.Organization)

	o := entity.Organization
	assert.Equal(t, "https://www.linkedin.com/company/acme", o.SourceURL)
	assert.Equal(t, "Acme Corp", o.Name)
	assert.Equal(t, "Acme builds portable holes.", o.Description)
	assert.Equal(t, "https://cdn.example.com/acme-logo.jpg", o.LogoURL)
}

func TestParseUnrecognizedURL(t *testing.T) {
	entity, err := Parse("https://www.acme.com/about", strings.NewReader(personHTML))
	require.NoError(t, err)
	assert.Nil(t, entity.Person)
	assert.Nil(t, entity.Organization)
}

func TestScrapeURLSkipsUnrecognizedPages(t *testing.T) {
	fetched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
		w.Write([]byte(personHTML))
	}))
	t.Cleanup(srv.Close)

	s := NewScraper(srv.Client())
	entity, err := s.ScrapeURL(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Nil(t, entity.Person)
	assert.False(t, fetched)
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		title        string
		wantName     string
		wantHeadline string
	}{
		{"Jane Doe - CTO at Acme | LinkedIn", "Jane Doe", "CTO at Acme"},
		{"Jane Doe | LinkedIn", "Jane Doe", ""},
		{"Jane Doe", "Jane Doe", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, headline := splitTitle(tt.title)
		assert.Equal(t, tt.wantName, name, tt.title)
		assert.Equal(t, tt.wantHeadline, headline, tt.title)
	}
}
