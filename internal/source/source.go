// Package source adapts mail items into the subject and plain-text body the
// extraction core consumes. Each adapter understands one stored format.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/mailfacts/internal/model"
)

var (
	// ErrUnsupported is returned when no adapter accepts the requested format
	ErrUnsupported = errors.New("unsupported message format")
	// ErrUnreadable is returned when the subject or body cannot be retrieved
	ErrUnreadable = errors.New("message content unavailable")
)

// MailSource supplies the subject and plain-text body of one mail item
type MailSource interface {
	Subject(ctx context.Context) (string, error)
	Body(ctx context.Context) (string, error)
}

// InfoSource is implemented by sources that also expose header details
type InfoSource interface {
	Info(ctx context.Context) (model.MessageInfo, error)
}

// Message is an already-resolved mail item
type Message struct {
	subject string
	body    string
	info    *model.MessageInfo
}

// FromStrings wraps a subject and plain-text body supplied directly by a host
func FromStrings(subject, body string) *Message {
	return &Message{subject: subject, body: body}
}

// Subject returns the subject line
func (m *Message) Subject(context.Context) (string, error) {
	return m.subject, nil
}

// Body returns the plain-text body
func (m *Message) Body(context.Context) (string, error) {
	return m.body, nil
}

// Info returns header details; the subject is always filled in
func (m *Message) Info(context.Context) (model.MessageInfo, error) {
	if m.info == nil {
		return model.MessageInfo{Subject: m.subject}, nil
	}
	return *m.info, nil
}

// Adapter turns the raw bytes of one stored format into a MailSource
type Adapter interface {
	// Name returns the format name used by --format
	Name() string

	// CanHandle checks if this adapter understands the given file name/content type
	CanHandle(name string, contentType string) bool

	// Parse builds a MailSource from raw content
	Parse(name string, data []byte) (MailSource, error)
}

// Registry picks an adapter for each input
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the eml and html adapters and plain text as fallback
func NewRegistry() *Registry {
	registry := &Registry{}

	registry.Register(NewEMLAdapter())
	registry.Register(NewHTMLAdapter())
	registry.Register(NewTextAdapter())

	registry.fallback = NewTextAdapter()

	return registry
}

// Register registers a new adapter ahead of the fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the first adapter that accepts the name/content type
func (r *Registry) FindAdapter(name string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(name, contentType) {
			return adapter
		}
	}
	return r.fallback
}

// ByName returns the adapter registered under format
func (r *Registry) ByName(format string) (Adapter, error) {
	for _, adapter := range r.adapters {
		if strings.EqualFold(adapter.Name(), format) {
			return adapter, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
}

// Open reads a message file and parses it with the matching adapter
func (r *Registry) Open(path string) (MailSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadable, path, err)
	}
	return r.FindAdapter(filepath.Base(path), "").Parse(path, data)
}

// OpenReader parses a message from rd. An empty format selects the adapter by name.
func (r *Registry) OpenReader(name string, rd io.Reader, format string) (MailSource, error) {
	adapter := r.FindAdapter(name, "")
	if format != "" {
		var err error
		if adapter, err = r.ByName(format); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadable, name, err)
	}
	return adapter.Parse(name, buf.Bytes())
}

func hasExtension(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func hasMediaType(contentType string, types ...string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, t := range types {
		if ct == t {
			return true
		}
	}
	return false
}

type subjectOverride struct {
	MailSource
	subject string
}

// WithSubject replaces the subject reported by src
func WithSubject(src MailSource, subject string) MailSource {
	return &subjectOverride{MailSource: src, subject: subject}
}

func (s *subjectOverride) Subject(context.Context) (string, error) {
	return s.subject, nil
}

func (s *subjectOverride) Info(ctx context.Context) (model.MessageInfo, error) {
	info := model.MessageInfo{}
	if is, ok := s.MailSource.(InfoSource); ok {
		var err error
		if info, err = is.Info(ctx); err != nil {
			return info, err
		}
	}
	info.Subject = s.subject
	return info, nil
}
