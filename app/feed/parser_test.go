package feed

import (
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description><![CDATA[<p>Item 1 <img src="https://example.com/inline.jpg"></p>]]></description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <media:group>
        <media:content url="https://example.com/group.jpg" medium="image"/>
        <media:thumbnail url="https://example.com/group-thumb.jpg"/>
      </media:group>
      <media:content url="https://example.com/flat.jpg" medium="image"/>
      <enclosure url="https://example.com/enclosure.jpg" length="1234" type="image/jpeg"/>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <media:thumbnail url="https://example.com/thumb2.jpg"/>
    </item>
    <item>
      <description>No title here</description>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", item1.Title)
	}
	if item1.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", item1.Link)
	}
	if item1.PublishedAt == nil {
		t.Fatal("Expected published date to be parsed")
	}
	if !item1.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected published date: %v", item1.PublishedAt)
	}
	if len(item1.MediaGroups) != 1 {
		t.Fatalf("Expected 1 media group, got: %d", len(item1.MediaGroups))
	}
	if item1.MediaGroups[0].Contents[0].URL != "https://example.com/group.jpg" {
		t.Errorf("Unexpected group content URL: %s", item1.MediaGroups[0].Contents[0].URL)
	}
	if item1.MediaGroups[0].Thumbnails[0].URL != "https://example.com/group-thumb.jpg" {
		t.Errorf("Unexpected group thumbnail URL: %s", item1.MediaGroups[0].Thumbnails[0].URL)
	}
	if len(item1.MediaCandidates) == 0 || item1.MediaCandidates[0].URL != "https://example.com/flat.jpg" {
		t.Errorf("Expected flat media candidate, got: %+v", item1.MediaCandidates)
	}
	if item1.Enclosure == nil || item1.Enclosure.URL != "https://example.com/enclosure.jpg" {
		t.Errorf("Expected enclosure to be extracted, got: %+v", item1.Enclosure)
	}
	if item1.Enclosure != nil && item1.Enclosure.Type != "image/jpeg" {
		t.Errorf("Expected enclosure type 'image/jpeg', got: %s", item1.Enclosure.Type)
	}
	if len(item1.HTMLContent) == 0 {
		t.Error("Expected HTML content to be captured")
	}

	item2 := items[1]
	if item2.PublishedAt != nil {
		t.Errorf("Expected no published date, got: %v", item2.PublishedAt)
	}
	if len(item2.MediaCandidates) == 0 || item2.MediaCandidates[0].URL != "https://example.com/thumb2.jpg" {
		t.Errorf("Expected thumbnail candidate, got: %+v", item2.MediaCandidates)
	}

	if items[2].Title != "" {
		t.Errorf("Expected empty title for malformed item, got: %s", items[2].Title)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <content type="html">&lt;p&gt;Test content&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser()
	items, err := parser.Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}

	entry := items[0]
	if entry.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", entry.Link)
	}
	if entry.PublishedAt == nil {
		t.Fatal("Expected updated date to stand in for published date")
	}
	if !entry.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected published date: %v", entry.PublishedAt)
	}
	if entry.Summary == "" {
		t.Error("Expected content to stand in for summary")
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run([]byte("this is not a feed"))
	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}
