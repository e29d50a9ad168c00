// Package opml reads subscription lists exported as OPML outlines
package opml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/umputun/tubetally/pkg/domain"
)

const unknownLabel = "Unknown"

// ParseError is returned when the subscription list is missing or malformed
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse opml: %v", e.Err)
	}
	return fmt.Sprintf("parse opml %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type document struct {
	XMLName xml.Name  `xml:"opml"`
	Body    []outline `xml:"body>outline"`
}

type outline struct {
	Title    string    `xml:"title,attr"`
	Text     string    `xml:"text,attr"`
	XMLURL   string    `xml:"xmlUrl,attr"`
	Outlines []outline `xml:"outline"`
}

// Read loads subscriptions from the OPML file at path
func Read(path string) ([]domain.Subscription, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from CLI flag
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer fh.Close()

	subs, err := Parse(fh)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return subs, nil
}

// Parse decodes OPML from r and returns every outline with a feed url, in document order.
// Outlines may be nested at any depth, category outlines without xmlUrl are walked but not returned.
func Parse(r io.Reader) ([]domain.Subscription, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	subs := []domain.Subscription{}
	var walk func(items []outline)
	walk = func(items []outline) {
		for _, o := range items {
			if u := strings.TrimSpace(o.XMLURL); u != "" {
				subs = append(subs, domain.Subscription{Label: label(o), FeedURL: u})
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body)
	return subs, nil
}

func label(o outline) string {
	if t := strings.TrimSpace(o.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(o.Text); t != "" {
		return t
	}
	return unknownLabel
}

