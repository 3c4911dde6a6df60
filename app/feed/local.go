package feed

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

const (
	DefaultSearchURL = "https://news.google.com/rss/search"

	defaultLocalQuery = "United States news"
	defaultLocale     = "en-US"
	defaultRegion     = "US"
)

type LocalQuery struct {
	Query string `json:"query"`
	// Locale is a BCP 47 tag such as "en-US", empty when the country is
	// unknown.
	Locale string `json:"locale,omitempty"`
}

// BuildQuery turns a geo descriptor into a search query and locale. It never
// fails: an empty geo yields a generic query.
func BuildQuery(geo Geo) LocalQuery {
	var parts []string
	for _, part := range []string{geo.City, geo.Region, geo.Country} {
		if part = collapseSpaces(part); part != "" {
			parts = append(parts, part)
		}
	}

	query := defaultLocalQuery
	if len(parts) > 0 {
		query = strings.Join(parts, " ") + " news"
	}

	return LocalQuery{Query: query, Locale: localeForCountry(geo.Country)}
}

// localeForCountry maps an ISO 3166 country code to the most likely locale
// for it, e.g. "de" -> "de-DE". Names and unknown codes yield "".
func localeForCountry(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return ""
	}

	region, err := language.ParseRegion(country)
	if err != nil || !region.IsCountry() {
		return ""
	}

	base, confidence := language.Make("und-" + region.String()).Base()
	if confidence == language.No {
		return ""
	}

	locale, err := language.Compose(base, region)
	if err != nil {
		return ""
	}
	return locale.String()
}

// SearchURL builds the search feed URL for a local query. An empty base
// selects DefaultSearchURL; an empty locale falls back to en-US.
func SearchURL(base string, q LocalQuery) string {
	if base == "" {
		base = DefaultSearchURL
	}

	hl := q.Locale
	if hl == "" {
		hl = defaultLocale
	}
	lang, gl := splitLocale(hl)

	u, err := url.Parse(base)
	if err != nil {
		u, _ = url.Parse(DefaultSearchURL)
	}

	params := u.Query()
	params.Set("q", q.Query)
	params.Set("hl", hl)
	params.Set("gl", gl)
	params.Set("ceid", gl+":"+lang)
	u.RawQuery = params.Encode()

	return u.String()
}

func splitLocale(locale string) (lang, region string) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en", defaultRegion
	}
	base, _ := tag.Base()
	r, _ := tag.Region()
	return base.String(), r.String()
}

// LocalSourceName labels headlines from the local search feed.
func LocalSourceName(locale string) string {
	if locale == "" {
		return "Google News Local"
	}
	return "Google News (" + locale + ")"
}
