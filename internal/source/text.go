package source

import (
	"strings"
)

// TextAdapter reads plain-text messages. A leading "Subject:" line, if
// present, becomes the subject; everything after it is the body.
type TextAdapter struct{}

// NewTextAdapter creates a new plain-text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle accepts .txt files and text/plain
func (a *TextAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".txt", ".text") || hasMediaType(contentType, "text/plain")
}

// Parse splits an optional subject line from the body
func (a *TextAdapter) Parse(name string, data []byte) (MailSource, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	first, rest, _ := strings.Cut(text, "\n")
	if label, subject, ok := strings.Cut(first, ":"); ok && strings.EqualFold(strings.TrimSpace(label), "subject") {
		return FromStrings(strings.TrimSpace(subject), strings.TrimLeft(rest, "\n")), nil
	}

	return FromStrings("", text), nil
}
