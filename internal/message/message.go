package message

// This file provides the common data objects used by the rest of the
// program.

import (
	"fmt"
	"strings"
	"time"
)

// Header is a single message header.  Records keep headers in the
// order the provider delivered them.
type Header struct {
	Name  string
	Value string
}

// Part is a node in a message's MIME part tree.
type Part struct {
	// The MIME type of this part, e.g. "text/plain" or
	// "multipart/alternative".
	MimeType string

	// The base64 encoded body of this part.  Empty for container
	// parts.  Both the URL safe and standard alphabets are
	// accepted, padded or not.
	Data string

	// Child parts, in the order they appear in the message.
	Parts []*Part
}

// Record is a complete message as fetched from a provider.
type Record struct {
	// The provider's identifier for the message.
	ID string

	// Top level message headers.
	Headers []Header

	// The root of the part tree.  May be nil for messages with
	// no body.
	Payload *Part
}

// Header returns the value of the first header named name, compared
// case-insensitively, and whether one was found.
func (r *Record) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Enriched is a message reduced to the fields the report and review
// steps need, plus its category.
type Enriched struct {
	ID      string
	Subject string
	Sender  string

	// Local time the message was sent.  The zero value means the
	// Date header was missing or could not be parsed.
	Date time.Time

	// Plain text body, possibly empty.
	Body string

	Category Category
}

// DateLayout formats message dates for display.
const DateLayout = "2006-01-02 15:04"

// FormattedDate returns the date in DateLayout, or "Unknown" when there
// is none.
func (m *Enriched) FormattedDate() string {
	if m.Date.IsZero() {
		return "Unknown"
	}
	return m.Date.Format(DateLayout)
}

// Field selects the message attribute a Query matches against.
type Field int

const (
	FromField Field = iota
	SubjectField
)

func (f Field) String() string {
	switch f {
	case FromField:
		return "from"
	case SubjectField:
		return "subject"
	}
	return "unknown"
}

// Query is a provider search: Field contains Term, received on or
// after After.
type Query struct {
	Field Field
	Term  string
	After time.Time
}

// String renders q in Gmail search syntax, e.g.
// "from:*acme* after:2024/01/31".
func (q Query) String() string {
	return fmt.Sprintf("%s:*%s* after:%s", q.Field, q.Term, q.After.Format("2006/01/02"))
}
