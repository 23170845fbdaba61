package source

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// blockElements end a line of visible text
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// HTMLAdapter reads HTML bodies; the <title> becomes the subject
type HTMLAdapter struct{}

// NewHTMLAdapter creates a new HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle accepts .html/.htm files and text/html
func (a *HTMLAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".html", ".htm") || hasMediaType(contentType, "text/html")
}

// Parse converts the document to visible text
func (a *HTMLAdapter) Parse(name string, data []byte) (MailSource, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html %s: %v", ErrUnreadable, name, err)
	}
	return FromStrings(documentTitle(doc), visibleText(doc)), nil
}

// HTMLToText returns the visible text of an HTML fragment or document,
// one line per block element
func HTMLToText(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return visibleText(doc), nil
}

// visibleText extracts text nodes, skipping scripts/styles and the document head
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(collapseSpace(n.Data))
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return tidyLines(buf.String())
}

// collapseSpace folds runs of whitespace to one space, keeping a single
// leading or trailing space so adjacent inline text stays separated
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}

	out := strings.Join(fields, " ")
	if strings.TrimLeftFunc(s, unicode.IsSpace) != s {
		out = " " + out
	}
	if strings.TrimRightFunc(s, unicode.IsSpace) != s {
		out += " "
	}
	return out
}

// tidyLines trims every line and drops the empty ones
func tidyLines(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func documentTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
		}
		return strings.Join(strings.Fields(buf.String()), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := documentTitle(c); title != "" {
			return title
		}
	}
	return ""
}
