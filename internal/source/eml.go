package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/ppiankov/mailfacts/internal/model"
)

// EMLAdapter reads RFC 822 messages
type EMLAdapter struct {
	decoder *mime.WordDecoder
}

// NewEMLAdapter creates a new EML adapter
func NewEMLAdapter() *EMLAdapter {
	return &EMLAdapter{
		decoder: &mime.WordDecoder{CharsetReader: charsetReader},
	}
}

// Name returns the adapter name
func (a *EMLAdapter) Name() string {
	return "eml"
}

// CanHandle accepts .eml files and message/rfc822
func (a *EMLAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".eml") || hasMediaType(contentType, "message/rfc822")
}

// Parse reads headers and the preferred text body. text/plain parts win
// over text/html; other parts are listed as attachments.
func (a *EMLAdapter) Parse(name string, data []byte) (MailSource, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnreadable, name, err)
	}

	var parts messageParts
	if err := a.collect(&parts, msg.Header, msg.Body); err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %v", ErrUnreadable, name, err)
	}

	info := model.MessageInfo{
		Subject:     a.decodeHeader(msg.Header.Get("Subject")),
		From:        a.decodeHeader(msg.Header.Get("From")),
		Date:        msg.Header.Get("Date"),
		Attachments: parts.attachments,
	}

	return &Message{
		subject: info.Subject,
		body:    parts.body(),
		info:    &info,
	}, nil
}

type messageParts struct {
	plain       []string
	html        []string
	attachments []string
}

func (p *messageParts) body() string {
	if len(p.plain) > 0 {
		return strings.Join(p.plain, "\n")
	}
	return strings.Join(p.html, "\n")
}

type header interface {
	Get(key string) string
}

func (a *EMLAdapter) collect(parts *messageParts, h header, r io.Reader) error {
	contentType := h.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, params = "text/plain", nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if params["boundary"] == "" {
			return nil
		}
		mr := multipart.NewReader(r, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			err = a.collect(parts, part.Header, part)
			part.Close()
			if err != nil {
				return err
			}
		}
	}

	if name, ok := a.attachmentName(h, mediaType, params); ok {
		parts.attachments = append(parts.attachments, fmt.Sprintf("%s (%s)", name, mediaType))
		return nil
	}

	content, err := io.ReadAll(transferDecoder(h.Get("Content-Transfer-Encoding"), r))
	if err != nil {
		return err
	}
	text := decodeCharset(params["charset"], content)

	switch mediaType {
	case "text/plain":
		parts.plain = append(parts.plain, strings.ReplaceAll(text, "\r\n", "\n"))
	case "text/html":
		visible, err := HTMLToText(text)
		if err != nil {
			return err
		}
		parts.html = append(parts.html, visible)
	}
	return nil
}

func (a *EMLAdapter) attachmentName(h header, mediaType string, params map[string]string) (string, bool) {
	disposition, dparams, _ := mime.ParseMediaType(h.Get("Content-Disposition"))

	switch {
	case disposition == "attachment":
	case !strings.HasPrefix(mediaType, "text/"):
	default:
		return "", false
	}

	name := dparams["filename"]
	if name == "" {
		name = params["name"]
	}
	if name == "" {
		return "unnamed", true
	}
	return a.decodeHeader(name), true
}

// decodeHeader decodes RFC 2047 encoded words, returning the input on failure
func (a *EMLAdapter) decodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := a.decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

// decodeCharset converts content to UTF-8, leaving it unchanged when the
// charset is unknown
func decodeCharset(charset string, content []byte) string {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii":
		return string(content)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(content)
	}
	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}
