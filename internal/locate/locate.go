// Package locate finds the messages that concern an organization.
//
// The organization's name is normalized into a search term, then the
// mailbox is searched for senders containing the term.  Only when that
// finds nothing is the subject line searched instead.
package locate

import (
	"context"
	"strings"
	"time"

	"github.com/matta/jobmail/internal/message"

	"github.com/pkg/errors"
)

// ErrEmptyTerm is returned for names that consist only of legal
// suffixes, or nothing at all.  Searching for an empty term would
// match every message in the window.
var ErrEmptyTerm = errors.New("organization name has no searchable term")

// Source reports which query produced a Locate result.
type Source int

const (
	SourceNone Source = iota
	SourceSender
	SourceSubject
)

func (s Source) String() string {
	switch s {
	case SourceSender:
		return "sender"
	case SourceSubject:
		return "subject"
	}
	return "none"
}

// Searcher runs a query against a mailbox and returns the matching
// message ids.
type Searcher interface {
	Search(ctx context.Context, q message.Query) ([]string, error)
}

// Locator searches for an organization by sender, then by subject.
type Locator struct {
	Searcher Searcher

	// Legal-form tokens removed from names, e.g. "inc" or "gmbh".
	// Compared lower case.
	Suffixes []string

	// Only messages received on or after Since are considered.
	Since time.Time
}

// New returns a Locator searching the window days before now.
func New(s Searcher, suffixes []string, now time.Time, windowDays int) *Locator {
	return &Locator{
		Searcher: s,
		Suffixes: suffixes,
		Since:    now.AddDate(0, 0, -windowDays),
	}
}

// Normalize lower cases name and removes every token that is one of
// suffixes, wherever it occurs.  Trailing periods and commas are
// ignored when comparing tokens, so "Acme, Inc." becomes "acme".
func Normalize(name string, suffixes []string) string {
	drop := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		drop[strings.ToLower(strings.TrimSpace(s))] = true
	}
	var keep []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		bare := strings.TrimRight(tok, ".,")
		if bare == "" || drop[bare] {
			continue
		}
		keep = append(keep, strings.TrimRight(tok, ","))
	}
	return strings.Join(keep, " ")
}

// Locate returns the ids of messages from org or, failing that,
// mentioning org in their subject.
func (l *Locator) Locate(ctx context.Context, org string) ([]string, Source, error) {
	term := Normalize(org, l.Suffixes)
	if term == "" {
		return nil, SourceNone, errors.Wrapf(ErrEmptyTerm, "%q", org)
	}

	ids, err := l.Searcher.Search(ctx, message.Query{Field: message.FromField, Term: term, After: l.Since})
	if err != nil {
		return nil, SourceNone, errors.Wrapf(err, "searching senders for %q", term)
	}
	if len(ids) > 0 {
		return ids, SourceSender, nil
	}

	ids, err = l.Searcher.Search(ctx, message.Query{Field: message.SubjectField, Term: term, After: l.Since})
	if err != nil {
		return nil, SourceNone, errors.Wrapf(err, "searching subjects for %q", term)
	}
	if len(ids) > 0 {
		return ids, SourceSubject, nil
	}
	return nil, SourceNone, nil
}
