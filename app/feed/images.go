package feed

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageImageLookup finds a representative image on an article page.
// Implementations never fail; "" means no image.
type PageImageLookup interface {
	Find(ctx context.Context, pageURL string) string
}

// ImageResolver picks a thumbnail for a raw item through an ordered fallback
// chain. The page step only runs when a lookup is configured.
type ImageResolver struct {
	pages PageImageLookup
}

func NewImageResolver(pages PageImageLookup) *ImageResolver {
	return &ImageResolver{pages: pages}
}

func (r *ImageResolver) Resolve(ctx context.Context, item RawItem) string {
	base := parseBase(item.Link)

	steps := []func() string{
		func() string { return fromMediaGroups(item.MediaGroups) },
		func() string { return firstDescriptorURL(item.MediaCandidates) },
		func() string { return fromEnclosure(item.Enclosure) },
		func() string { return firstInlineImage(item.HTMLContent) },
	}

	for _, step := range steps {
		if candidate := absoluteURL(base, step()); candidate != "" {
			return candidate
		}
	}

	if r.pages != nil && base != nil {
		return r.pages.Find(ctx, base.String())
	}

	return ""
}

func fromMediaGroups(groups []MediaGroup) string {
	for _, group := range groups {
		if u := firstDescriptorURL(group.Contents); u != "" {
			return u
		}
		if u := firstDescriptorURL(group.Thumbnails); u != "" {
			return u
		}
	}
	return ""
}

func firstDescriptorURL(descriptors []MediaDescriptor) string {
	for _, d := range descriptors {
		if u := strings.TrimSpace(d.URL); u != "" {
			return u
		}
	}
	return ""
}

func fromEnclosure(enclosure *Enclosure) string {
	if enclosure == nil {
		return ""
	}
	mimeType := strings.ToLower(strings.TrimSpace(enclosure.Type))
	if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
		return ""
	}
	return strings.TrimSpace(enclosure.URL)
}

func firstInlineImage(fragments []string) string {
	for _, fragment := range fragments {
		if !strings.Contains(strings.ToLower(fragment), "<img") {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		if src := firstImgSrc(doc.Selection); src != "" {
			return src
		}
	}
	return ""
}

func firstImgSrc(sel *goquery.Selection) string {
	src := ""
	sel.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		value := strings.TrimSpace(img.AttrOr("src", ""))
		if value == "" || strings.HasPrefix(value, "data:") {
			return true
		}
		src = value
		return false
	})
	return src
}

func parseBase(link string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return u
}

// absoluteURL resolves candidate against base. Protocol-relative candidates
// get https; relative ones without a usable base are discarded.
func absoluteURL(base *url.URL, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	if strings.HasPrefix(candidate, "//") {
		return "https:" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		return u.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
