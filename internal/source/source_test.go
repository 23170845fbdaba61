package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStrings(t *testing.T) {
	ctx := context.Background()
	msg := FromStrings("Loan enquiry", "Applicant: John Smith")

	subject, err := msg.Subject(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Loan enquiry", subject)

	body, err := msg.Body(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Applicant: John Smith", body)

	info, err := msg.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Loan enquiry", info.Subject)
	assert.Empty(t, info.From)
}

func TestRegistry_FindAdapter(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name        string
		file        string
		contentType string
		want        string
	}{
		{"eml extension", "enquiry.eml", "", "eml"},
		{"eml upper case", "ENQUIRY.EML", "", "eml"},
		{"rfc822 content type", "upload", "message/rfc822", "eml"},
		{"html extension", "body.html", "", "html"},
		{"htm extension", "body.htm", "", "html"},
		{"html content type", "upload", "text/html; charset=utf-8", "html"},
		{"text extension", "notes.txt", "", "text"},
		{"unknown falls back to text", "notes.log", "", "text"},
		{"no name falls back to text", "", "", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.FindAdapter(tt.file, tt.contentType).Name())
		})
	}
}

func TestRegistry_ByName(t *testing.T) {
	registry := NewRegistry()

	adapter, err := registry.ByName("HTML")
	require.NoError(t, err)
	assert.Equal(t, "html", adapter.Name())

	_, err = registry.ByName("pdf")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRegistry_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enquiry.txt")
	require.NoError(t, os.WriteFile(path, []byte("Subject: Remortgage\n\nBorrower: Jane Doe\n"), 0o644))

	src, err := NewRegistry().Open(path)
	require.NoError(t, err)

	subject, err := src.Subject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remortgage", subject)

	body, err := src.Body(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Borrower: Jane Doe\n", body)
}

func TestRegistry_OpenMissingFile(t *testing.T) {
	_, err := NewRegistry().Open(filepath.Join(t.TempDir(), "missing.eml"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestRegistry_OpenReaderWithFormat(t *testing.T) {
	registry := NewRegistry()

	src, err := registry.OpenReader("stdin", strings.NewReader("<p>Postcode: SW1A 1AA</p>"), "html")
	require.NoError(t, err)

	body, err := src.Body(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Postcode: SW1A 1AA", body)

	_, err = registry.OpenReader("stdin", strings.NewReader(""), "docx")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTextAdapter_Parse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSubject string
		wantBody    string
	}{
		{"subject line", "Subject: Hello\n\nBody here", "Hello", "Body here"},
		{"lower case label", "subject:   Spaced  \nBody", "Spaced", "Body"},
		{"crlf line endings", "Subject: Hi\r\n\r\nLine one\r\nLine two", "Hi", "Line one\nLine two"},
		{"no subject", "Just text\nmore", "", "Just text\nmore"},
		{"other label", "Client: Jane Doe\n", "", "Client: Jane Doe\n"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewTextAdapter().Parse("input.txt", []byte(tt.input))
			require.NoError(t, err)

			subject, _ := src.Subject(context.Background())
			body, _ := src.Body(context.Background())
			assert.Equal(t, tt.wantSubject, subject)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestWithSubject(t *testing.T) {
	ctx := context.Background()

	eml := "From: broker@example.com\nSubject: Original\n\nBody text\n"
	parsed, err := NewEMLAdapter().Parse("m.eml", []byte(eml))
	require.NoError(t, err)

	src := WithSubject(parsed, "Replacement")

	subject, err := src.Subject(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Replacement", subject)

	body, err := src.Body(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Body text\n", body)

	info, err := src.(InfoSource).Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Replacement", info.Subject)
	assert.Equal(t, "broker@example.com", info.From)
}
