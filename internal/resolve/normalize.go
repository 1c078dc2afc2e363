package resolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// twoPartTLDs lists compound TLDs for which the registrable domain keeps
// three labels instead of two (example.co.uk, not co.uk).
var twoPartTLDs = map[string]struct{}{
	"co.uk": {}, "com.au": {}, "co.nz": {}, "co.za": {}, "com.br": {}, "com.mx": {},
	"com.ar": {}, "com.co": {}, "com.sg": {}, "com.hk": {}, "com.tw": {}, "com.tr": {},
	"com.vn": {}, "com.ph": {}, "com.my": {}, "com.id": {}, "com.th": {}, "com.kr": {},
	"co.jp": {}, "co.in": {}, "com.cn": {}, "com.ru": {}, "com.ua": {}, "com.pl": {},
	"com.cz": {}, "com.ro": {}, "com.gr": {}, "com.pt": {}, "com.es": {}, "com.it": {},
	"com.fr": {}, "com.de": {}, "com.nl": {}, "com.be": {}, "com.ch": {}, "com.at": {},
	"com.se": {}, "com.no": {}, "com.dk": {}, "com.fi": {}, "com.ie": {}, "com.uk": {},
}

// NormalizeDomain lowercases a domain and strips protocol, www prefix,
// path, query, fragment and port.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	for _, sep := range []string{"/", "?", "#", ":"} {
		if i := strings.Index(d, sep); i >= 0 {
			d = d[:i]
		}
	}
	return d
}

// ExtractRootDomain reduces a URL or hostname to its registrable domain:
// two labels for ordinary TLDs, three for the compound TLDs in the fixed
// table. Returns "" when no hostname can be derived.
func ExtractRootDomain(rawURL string) string {
	host := NormalizeDomain(rawURL)
	if host == "" {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 3 {
		lastTwo := strings.Join(parts[len(parts)-2:], ".")
		if _, ok := twoPartTLDs[lastTwo]; ok {
			return strings.Join(parts[len(parts)-3:], ".")
		}
	}
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// NormalizeSourceURL strips the query string and fragment from a profile
// URL so it is stable under tracking parameters. Used as the ledger source
// key and before any source-link matching.
func NormalizeSourceURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	for _, sep := range []string{"?", "#"} {
		if i := strings.Index(u, sep); i >= 0 {
			u = u[:i]
		}
	}
	return u
}

// CleanName trims a scraped name and applies Unicode NFC normalization so
// that DOM-sourced decomposed accents compare equal to stored composed
// forms under case-insensitive matching.
func CleanName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
