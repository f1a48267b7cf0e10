// Package report renders the results of a check as text.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/matta/jobmail/internal/message"
)

const width = 80

type Options struct {
	// Search window, for the summary line.
	WindowDays int

	// Bodies longer than BodyChars characters are truncated.
	BodyChars int
}

// Render writes the report for set to w.  all is the complete list of
// organizations checked; those without messages are listed at the end.
func Render(w io.Writer, set *message.ResultSet, all []string, opts Options) error {
	rw := &errWriter{w: w}
	rw.printf("\n%s\n", strings.Repeat("=", width))
	rw.printf("RESULTS: COMPANY EMAIL CHECK\n")
	rw.printf("%s\n", strings.Repeat("=", width))

	if set.Len() == 0 {
		rw.printf("No emails found from any companies in your list.\n")
	} else {
		rw.printf("Found emails from %d companies in the last %d days:\n\n", set.Len(), opts.WindowDays)
		renderSummary(rw, set)
		for _, org := range set.Organizations() {
			renderOrganization(rw, org, set.Messages(org), opts)
		}
	}

	missing := set.Missing(all)
	if len(missing) > 0 {
		sort.Strings(missing)
		rw.printf("\n%s\n", strings.Repeat("-", width))
		rw.printf("Companies with NO emails found:\n")
		for _, org := range missing {
			rw.printf("  - %s\n", org)
		}
	}
	return rw.err
}

func renderSummary(rw *errWriter, set *message.ResultSet) {
	var counts message.Counts
	set.Each(func(_ string, m *message.Enriched) error {
		counts.Add(m.Category)
		return nil
	})
	rw.printf("Messages by category:\n")
	for _, c := range message.Categories() {
		if n := counts.Get(c); n > 0 {
			rw.printf("  %-22s %d\n", c.String()+":", n)
		}
	}
	rw.printf("\n")
}

func renderOrganization(rw *errWriter, org string, msgs []*message.Enriched, opts Options) {
	rw.printf("%s:\n", org)
	for _, c := range message.Categories() {
		var group []*message.Enriched
		for _, m := range msgs {
			if m.Category == c {
				group = append(group, m)
			}
		}
		if len(group) == 0 {
			continue
		}
		rw.printf("  %s (%d):\n", c, len(group))
		for i, m := range group {
			rw.printf("    %d. From: %s\n", i+1, m.Sender)
			rw.printf("       Subject: %s\n", m.Subject)
			rw.printf("       Date: %s\n", m.FormattedDate())
			body, cut := Truncate(m.Body, opts.BodyChars)
			if body == "" {
				rw.printf("       Body: (empty)\n")
			} else {
				rw.printf("       Body:\n")
				for _, line := range strings.Split(body, "\n") {
					rw.printf("         %s\n", strings.TrimRight(line, "\r"))
				}
			}
			if cut > 0 {
				rw.printf("         [... truncated, %d more characters]\n", cut)
			}
			rw.printf("\n")
		}
	}
}

// Truncate returns the first n characters of s and the number of
// characters removed.  A negative n disables truncation.
func Truncate(s string, n int) (string, int) {
	if n < 0 {
		return s, 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, 0
	}
	return string(r[:n]), len(r) - n
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
