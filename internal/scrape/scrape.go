// Package scrape extracts a ScrapedEntity from a profile or company page's
// structured metadata. It reads Open Graph tags and the document title
// only; layout-dependent selectors live in the browser extension, not here.
package scrape

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/resolve"
)

// PageKind classifies a URL by the kind of page it points at.
type PageKind string

const (
	PagePerson  PageKind = "person"
	PageCompany PageKind = "company"
	PageOther   PageKind = "other"
)

// DetectKind classifies a URL as a person profile, a company page, or
// neither.
func DetectKind(rawURL string) PageKind {
	switch {
	case strings.Contains(rawURL, "linkedin.com/in/"):
		return PagePerson
	case strings.Contains(rawURL, "linkedin.com/company/"):
		return PageCompany
	}
	return PageOther
}

// Scraper fetches pages and extracts scraped entities from their metadata.
type Scraper struct {
	http *http.Client
}

// NewScraper creates a scraper with the given HTTP client; nil uses a
// default client.
func NewScraper(hc *http.Client) *Scraper {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Scraper{http: hc}
}

// ScrapeURL fetches rawURL and extracts an entity from the document.
// Returns (zero, nil) when the page kind is not recognized.
func (s *Scraper) ScrapeURL(ctx context.Context, rawURL string) (model.ScrapedEntity, error) {
	kind := DetectKind(rawURL)
	if kind == PageOther {
		return model.ScrapedEntity{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.ScrapedEntity{}, eris.Wrap(err, "scrape: create request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return model.ScrapedEntity{}, eris.Wrapf(err, "scrape: fetch %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ScrapedEntity{}, eris.Errorf("scrape: fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return Parse(rawURL, resp.Body)
}

// Parse extracts an entity from an already-fetched document. The URL
// decides the entity kind; the query string is stripped before the URL is
// stored as the source link.
func Parse(rawURL string, r io.Reader) (model.ScrapedEntity, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return model.ScrapedEntity{}, eris.Wrap(err, "scrape: parse document")
	}

	sourceURL := resolve.NormalizeSourceURL(rawURL)
	switch DetectKind(rawURL) {
	case PagePerson:
		return parsePerson(doc, sourceURL), nil
	case PageCompany:
		return parseCompany(doc, sourceURL), nil
	}
	return model.ScrapedEntity{}, nil
}

func parsePerson(doc *goquery.Document, sourceURL string) model.ScrapedEntity {
	title := pageTitle(doc)
	fullName, headline := splitTitle(title)
	first, last := splitName(fullName)

	p := &model.Person{
		SourceURL: sourceURL,
		FirstName: first,
		LastName:  last,
		Headline:  headline,
		ImageURL:  metaContent(doc, "og:image"),
	}
	if company := companyFromHeadline(headline); company != "" {
		p.CurrentCompanyName = company
	}
	return model.ScrapedEntity{Person: p}
}

func parseCompany(doc *goquery.Document, sourceURL string) model.ScrapedEntity {
	title := pageTitle(doc)
	name, _ := splitTitle(title)

	return model.ScrapedEntity{Organization: &model.Organization{
		SourceURL:   sourceURL,
		Name:        name,
		Description: metaContent(doc, "og:description"),
		LogoURL:     metaContent(doc, "og:image"),
	}}
}

// pageTitle prefers og:title over the document title.
func pageTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "og:title"); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find(`meta[name="` + property + `"]`).First()
	}
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// splitTitle breaks "Name - Headline | LinkedIn" into name and headline.
func splitTitle(title string) (name, headline string) {
	title = strings.TrimSpace(title)
	if i := strings.LastIndex(title, " | "); i >= 0 {
		title = title[:i]
	}
	if i := strings.Index(title, " - "); i >= 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	return title, ""
}

// splitName breaks a display name into first name and the remainder.
func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// companyFromHeadline pulls a trailing "at Company" clause out of a
// headline.
func companyFromHeadline(headline string) string {
	if i := strings.LastIndex(headline, " at "); i >= 0 {
		return strings.TrimSpace(headline[i+4:])
	}
	return ""
}
