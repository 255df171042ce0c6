package feeds

import (
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Example World News</title>
    <link>https://example.com/world</link>
    <item>
      <title>First headline</title>
      <link>https://example.com/articles/1</link>
      <description><![CDATA[<p>Lead <b>paragraph</b> text.</p>]]></description>
      <pubDate>Mon, 24 Aug 2026 10:30:00 GMT</pubDate>
      <media:thumbnail url="https://example.com/img/1.jpg"/>
    </item>
    <item>
      <title>Second headline</title>
      <link>https://example.com/articles/2</link>
      <description>Plain text summary.</description>
      <pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate>
      <enclosure url="https://example.com/img/2.jpg" type="image/jpeg" length="1024"/>
    </item>
    <item>
      <title></title>
      <link>https://example.com/articles/3</link>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Tech Feed</title>
  <entry>
    <title>Atom headline</title>
    <link href="https://tech.example.com/posts/42"/>
    <updated>2026-08-24T12:00:00Z</updated>
    <content type="html">&lt;p&gt;Body text.&lt;/p&gt;</content>
  </entry>
</feed>`

func TestParseFeedRSS(t *testing.T) {
	items, err := ParseFeed([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}

	// The titleless entry is skipped.
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Title != "First headline" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Link != "https://example.com/articles/1" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.SourceHint != "Example World News" {
		t.Errorf("SourceHint = %q", first.SourceHint)
	}
	if first.PublishedAt == nil {
		t.Fatal("PublishedAt not parsed")
	}
	want := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	if !first.PublishedAt.UTC().Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", first.PublishedAt, want)
	}
	if first.ImageURL != "https://example.com/img/1.jpg" {
		t.Errorf("ImageURL = %q, want media thumbnail", first.ImageURL)
	}

	if items[1].ImageURL != "https://example.com/img/2.jpg" {
		t.Errorf("ImageURL = %q, want image enclosure", items[1].ImageURL)
	}
}

func TestParseFeedAtom(t *testing.T) {
	items, err := ParseFeed([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Title != "Atom headline" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.Link != "https://tech.example.com/posts/42" {
		t.Errorf("Link = %q", item.Link)
	}
	if item.SourceHint != "Example Tech Feed" {
		t.Errorf("SourceHint = %q", item.SourceHint)
	}
	// No published element; the updated timestamp fills in.
	if item.PublishedAt == nil {
		t.Fatal("PublishedAt not resolved from updated")
	}
	if item.Description == "" {
		t.Error("Description should fall back to content")
	}
}

func TestParseFeedMalformed(t *testing.T) {
	if _, err := ParseFeed([]byte("<html><body>not a feed</body></html>")); err == nil {
		t.Error("ParseFeed accepted a non-feed document")
	}
	if _, err := ParseFeed([]byte("<?xml version=\"1.0\"?><rss><chan")); err == nil {
		t.Error("ParseFeed accepted truncated XML")
	}
}
