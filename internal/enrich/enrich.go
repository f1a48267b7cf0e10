// Package enrich turns provider message records into categorized
// messages ready for review and reporting.
package enrich

import (
	"context"
	"fmt"

	"github.com/matta/jobmail/internal/categorize"
	"github.com/matta/jobmail/internal/message"
	"github.com/matta/jobmail/internal/mimetext"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

const (
	NoSubject     = "No Subject"
	UnknownSender = "Unknown Sender"

	errorSubject = "Error retrieving subject"
	errorSender  = "Error retrieving sender"
)

// Fetcher retrieves a complete message record by id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*message.Record, error)
}

// Enricher turns a message ID into a categorized Enriched message.
type Enricher struct {
	Fetcher     Fetcher
	Categorizer *categorize.Categorizer
	Log         *zap.SugaredLogger
}

// Enrich fetches message id and returns its headers, body and
// category.  org is the display name of the organization the message
// was found for.
//
// Enrich never fails.  A message that cannot be fetched is returned
// with placeholder fields and the Error category.
func (e *Enricher) Enrich(ctx context.Context, id, org string) *message.Enriched {
	rec, err := e.Fetcher.Fetch(ctx, id)
	if err != nil {
		e.Log.Warnw("unable to fetch message", "id", id, "organization", org, "error", err)
		return &message.Enriched{
			ID:       id,
			Subject:  errorSubject,
			Sender:   errorSender,
			Body:     fmt.Sprintf("Error retrieving message: %v", err),
			Category: message.Error,
		}
	}

	var h mail.Header
	for _, name := range []string{"Subject", "From", "Date"} {
		if v, ok := rec.Header(name); ok {
			h.Set(name, v)
		}
	}

	m := &message.Enriched{
		ID:      id,
		Subject: NoSubject,
		Sender:  UnknownSender,
		Body:    mimetext.Body(rec.Payload),
	}
	if h.Has("Subject") {
		m.Subject = decoded(&h, "Subject")
	}
	if h.Has("From") {
		m.Sender = decoded(&h, "From")
	}
	if h.Has("Date") {
		if d, err := h.Date(); err == nil {
			m.Date = d.Local()
		} else {
			e.Log.Debugw("unparseable date", "id", id, "date", h.Get("Date"), "error", err)
		}
	}

	var why string
	m.Category, why = e.Categorizer.Explain(m.Body, org)
	e.Log.Debugw("categorized message", "id", id, "organization", org, "category", m.Category, "rule", why)
	return m
}

// decoded returns header k with MIME encoded-words decoded, or the raw
// value when decoding fails.
func decoded(h *mail.Header, k string) string {
	v, err := h.Text(k)
	if err != nil {
		return h.Get(k)
	}
	return v
}
