package feed

import (
	"context"
	"html"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const summaryLength = 300

type Normalizer struct {
	images         *ImageResolver
	includeSummary bool
}

// NewNormalizer builds a normalizer. A nil resolver leaves images unset;
// includeSummary=false omits summaries from the output by policy.
func NewNormalizer(images *ImageResolver, includeSummary bool) *Normalizer {
	return &Normalizer{images: images, includeSummary: includeSummary}
}

// Normalize builds a Headline from a raw item. ok is false when the item
// lacks a title or a link.
func (n *Normalizer) Normalize(ctx context.Context, item RawItem, source, category string) (Headline, bool) {
	title := collapseSpaces(html.UnescapeString(strings.TrimSpace(item.Title)))
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Headline{}, false
	}

	// the league classifier sees the whole text; only the stored summary is cut
	fullSummary := PlainText(item.Summary, 0)

	headline := Headline{
		Title:         title,
		Link:          NormalizeLink(link),
		Source:        source,
		Category:      category,
		CitationCount: 1,
	}

	if item.PublishedAt != nil && !item.PublishedAt.IsZero() {
		published := *item.PublishedAt
		headline.PublishedAt = &published
	}

	if n.includeSummary {
		headline.Summary = truncate(fullSummary, summaryLength)
	}

	if n.images != nil {
		item.Link = headline.Link
		headline.ImageURL = n.images.Resolve(ctx, item)
	}

	if category == "sports" {
		headline.League = ClassifyLeague(title + " " + fullSummary)
	}

	return headline, true
}

// NormalizeLink trims link and upgrades plain http to https for registered
// domain names on the default port. Anything else is returned trimmed.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}

	u, err := url.Parse(link)
	if err != nil || u.Scheme != "http" || u.Host == "" || u.Port() != "" {
		return link
	}

	host := u.Hostname()
	if host == "localhost" || net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return link
	}

	u.Scheme = "https"
	return u.String()
}

// PlainText strips markup from an HTML fragment, collapses whitespace and
// truncates the result to maxRunes. A non-positive maxRunes keeps it whole.
func PlainText(fragment string, maxRunes int) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	text := html.UnescapeString(fragment)
	if strings.Contains(fragment, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment)); err == nil {
			text = doc.Text()
		}
	}

	return truncate(collapseSpaces(text), maxRunes)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
