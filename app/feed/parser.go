package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const mediaNamespace = "media"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS, Atom or JSON feed document into raw items. Items are
// adapted one by one; a nil entry is skipped rather than failing the feed.
func (p *Parser) Run(data []byte) ([]RawItem, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.adaptItem(item))
	}

	return items, nil
}

func (p *Parser) adaptItem(item *gofeed.Item) RawItem {
	raw := RawItem{
		Title:   item.Title,
		Link:    item.Link,
		Summary: cmp.Or(strings.TrimSpace(item.Description), strings.TrimSpace(item.Content)),
	}

	if strings.TrimSpace(raw.Link) == "" {
		for _, link := range item.Links {
			if strings.TrimSpace(link) != "" {
				raw.Link = link
				break
			}
		}
	}

	if item.PublishedParsed != nil {
		published := *item.PublishedParsed
		raw.PublishedAt = &published
	} else if item.UpdatedParsed != nil {
		updated := *item.UpdatedParsed
		raw.PublishedAt = &updated
	}

	for _, html := range []string{item.Content, item.Description} {
		if strings.TrimSpace(html) != "" {
			raw.HTMLContent = append(raw.HTMLContent, html)
		}
	}

	if media, ok := item.Extensions[mediaNamespace]; ok {
		raw.MediaGroups = p.extractMediaGroups(media)
		raw.MediaCandidates = p.extractFlatMedia(media)
	}

	if item.Image != nil && item.Image.URL != "" {
		raw.MediaCandidates = append(raw.MediaCandidates, MediaDescriptor{URL: item.Image.URL, Medium: "image"})
	}

	// RSS 2.0 allows a single enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		raw.Enclosure = &Enclosure{
			URL:  enclosure.URL,
			Type: enclosure.Type,
		}
	}

	return raw
}

func (p *Parser) extractMediaGroups(media map[string][]ext.Extension) []MediaGroup {
	groups := make([]MediaGroup, 0, len(media["group"]))
	for _, group := range media["group"] {
		var mg MediaGroup
		for _, content := range group.Children["content"] {
			mg.Contents = append(mg.Contents, p.descriptor(content))
			for _, thumb := range content.Children["thumbnail"] {
				mg.Thumbnails = append(mg.Thumbnails, p.descriptor(thumb))
			}
		}
		for _, thumb := range group.Children["thumbnail"] {
			mg.Thumbnails = append(mg.Thumbnails, p.descriptor(thumb))
		}
		if len(mg.Contents) > 0 || len(mg.Thumbnails) > 0 {
			groups = append(groups, mg)
		}
	}
	return groups
}

func (p *Parser) extractFlatMedia(media map[string][]ext.Extension) []MediaDescriptor {
	var descriptors []MediaDescriptor
	for _, content := range media["content"] {
		descriptors = append(descriptors, p.descriptor(content))
	}
	for _, thumb := range media["thumbnail"] {
		descriptors = append(descriptors, p.descriptor(thumb))
	}
	return descriptors
}

func (p *Parser) descriptor(e ext.Extension) MediaDescriptor {
	return MediaDescriptor{
		URL:    strings.TrimSpace(e.Attrs["url"]),
		Medium: e.Attrs["medium"],
		Type:   e.Attrs["type"],
	}
}
