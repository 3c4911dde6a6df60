package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"mime"
	"path"
	"strings"
	"time"
)

// Channel describes the RSS channel wrapped around a headline list.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Generator   string
}

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Run renders headlines as an RSS 2.0 document.
func (g *Generator) Run(channel Channel, headlines []Headline) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, fmt.Sprintf("Aggregated headlines: %s", channel.Title)), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := g.now()
	if latest := latestPublished(headlines); latest != nil {
		lastBuildDate = *latest
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	for _, h := range headlines {
		g.writeItem(&buf, h)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, h Headline) {
	buf.WriteString("    <item>\n")

	if h.Link != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(h.Link)))
		xml.EscapeText(buf, []byte(h.Link))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", h.Title, 6)
	g.writeElement(buf, "link", h.Link, 6)
	g.writeElement(buf, "description", cmp.Or(h.Summary, "No description available"), 6)

	if h.PublishedAt != nil {
		g.writeElement(buf, "pubDate", h.PublishedAt.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "author", h.Source, 6)
	g.writeElement(buf, "category", h.Category, 6)
	g.writeElement(buf, "category", h.League, 6)

	// RSS 2.0 requires url, length and type; length is unknown so 0
	if h.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(h.ImageURL),
			html.EscapeString(imageType(h.ImageURL))))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func latestPublished(headlines []Headline) *time.Time {
	var latest *time.Time
	for _, h := range headlines {
		if h.PublishedAt != nil && (latest == nil || h.PublishedAt.After(*latest)) {
			latest = h.PublishedAt
		}
	}
	return latest
}

func imageType(imageURL string) string {
	p := imageURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(p))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
