package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const youtubeAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
	<link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UC123"/>
	<id>yt:channel:UC123</id>
	<yt:channelId>UC123</yt:channelId>
	<title>Test Channel</title>
	<link rel="alternate" href="https://www.youtube.com/channel/UC123"/>
	<published>2015-01-01T00:00:00+00:00</published>
	<entry>
		<id>yt:video:vid1</id>
		<yt:videoId>vid1</yt:videoId>
		<title>First Video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=vid1"/>
		<published>2024-05-01T10:00:00+02:00</published>
		<updated>2024-05-02T10:00:00+00:00</updated>
	</entry>
	<entry>
		<id>yt:video:vid2</id>
		<title>No Date Video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=vid2"/>
	</entry>
</feed>`

func TestParser_Parse_YoutubeAtom(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(youtubeAtom))
	}))
	defer server.Close()

	parser := NewParser(ParserOpts{Timeout: 5 * time.Second, UserAgent: "tubetally-test"})
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "tubetally-test", userAgent)
	assert.Contains(t, accept, "application/atom+xml")
	assert.Equal(t, "Test Channel", feed.Title)
	require.Len(t, feed.Items, 2)

	item1 := feed.Items[0]
	assert.Equal(t, "First Video", item1.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", item1.Link)
	require.NotNil(t, item1.Published)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), *item1.Published)
	assert.Equal(t, time.UTC, item1.Published.Location())

	item2 := feed.Items[1]
	assert.Equal(t, "No Date Video", item2.Title)
	assert.Nil(t, item2.Published)
}

func TestParser_Parse_RSS(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>RSS Channel</title>
	<link>http://example.com</link>
	<item>
		<title>Good Date</title>
		<link>http://example.com/1</link>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
	</item>
	<item>
		<title>Bad Date</title>
		<link>http://example.com/2</link>
		<pubDate>sometime last week</pubDate>
	</item>
</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssContent))
	}))
	defer server.Close()

	parser := NewParser(ParserOpts{Timeout: 5 * time.Second})
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "RSS Channel", feed.Title)
	require.Len(t, feed.Items, 2)
	require.NotNil(t, feed.Items[0].Published)
	assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), *feed.Items[0].Published)
	assert.Nil(t, feed.Items[1].Published)
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: 5 * time.Second})
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("invalid xml", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not xml"))
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: 5 * time.Second})
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("too late"))
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: 50 * time.Millisecond})
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		parser := NewParser(ParserOpts{Timeout: 5 * time.Second})
		_, err := parser.Parse(context.Background(), "not-a-url")
		require.Error(t, err)
	})
}

func TestParser_Parse_Retries(t *testing.T) {
	t.Run("recovers after server error", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(youtubeAtom))
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: time.Second, Attempts: 3, RetryDelay: time.Millisecond})
		feed, err := parser.Parse(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Test Channel", feed.Title)
		assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	})

	t.Run("no retry on not found", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: time.Second, Attempts: 3, RetryDelay: time.Millisecond})
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("single attempt by default", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		parser := NewParser(ParserOpts{Timeout: time.Second})
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}
