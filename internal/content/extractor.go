package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is the readable snapshot of a fetched business website.
type Page struct {
	URL             string
	Title           string
	MetaDescription string
	BusinessName    string
	Text            string
}

// Elements that carry no human-readable value for drafting an email. The
// whole subtree is dropped before text extraction, nested text included.
var noiseSelectors = []string{
	"script", "style", "noscript", "svg", "img", "video", "audio", "canvas", "iframe",
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Extract parses an HTML payload and reduces it to newline-separated visible
// text. The content root is the first <main> element when present, otherwise
// <body>, otherwise the whole document.
func Extract(body []byte, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{URL: pageURL}
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))

	// Structured data lives in script tags, so read it before the noise pass
	// strips them. It never feeds into page.Text.
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if name := businessNameFromJSONLD(sel.Text()); name != "" {
			page.BusinessName = name
			return false
		}
		return true
	})

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	page.Text = cleanText(selectionText(root))
	return page, nil
}

// selectionText joins every text node under the selection with a newline so
// block-level siblings never run together.
func selectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// cleanText trims every line, drops the empty ones, and collapses any run of
// three or more newlines down to a single blank line.
func cleanText(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	cleaned := strings.Join(kept, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(cleaned, "\n\n"))
}
