package fetcher

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Page is a fetched, parsed HTML document. It caches the flattened
// text views the extractors scan repeatedly.
type Page struct {
	URL string

	doc *goquery.Document

	once      sync.Once
	text      string
	lowerText string
}

// NewPage parses an HTML body into a Page. Bodies in legacy encodings
// are decoded to UTF-8 first.
func NewPage(url string, body []byte) (*Page, error) {
	enc, _, _ := charset.DetermineEncoding(body, "")
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		if !utf8.Valid(body) {
			return nil, fmt.Errorf("decode page %s: %w", url, err)
		}
		decoded = body
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}
	return &Page{URL: url, doc: doc}, nil
}

// Doc exposes the parsed document for selector queries.
func (p *Page) Doc() *goquery.Document {
	return p.doc
}

// Text returns the full visible text of the page.
func (p *Page) Text() string {
	p.init()
	return p.text
}

// LowerText returns the full page text lower-cased.
func (p *Page) LowerText() string {
	p.init()
	return p.lowerText
}

// Title returns the trimmed <title> text, or "" when absent.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

func (p *Page) init() {
	p.once.Do(func() {
		p.text = p.doc.Text()
		p.lowerText = strings.ToLower(p.text)
	})
}
