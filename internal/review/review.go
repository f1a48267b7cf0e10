// Package review lets an operator confirm or correct the category of
// each message found.
package review

import (
	"fmt"
	"io"
	"strings"

	"github.com/matta/jobmail/internal/message"

	"github.com/pkg/errors"
)

// ErrAborted is returned when the operator abandons a review.
var ErrAborted = errors.New("review aborted")

// Prompter asks the operator questions.  Implementations return
// ErrAborted when no further answers can be had.
type Prompter interface {
	// Confirm asks a yes/no question.  The default answer is yes.
	Confirm(question string) (bool, error)

	// Choose asks the operator to pick one of options and returns
	// its index.
	Choose(question string, options []string) (int, error)
}

// Session reviews the categories of a result set with an operator.
type Session struct {
	Prompter Prompter

	// Message summaries are written to Out.
	Out io.Writer

	// Length of the body preview, in characters.
	PreviewChars int
}

// Review walks every message in set, in order, asking whether its
// category is right and replacing it when it is not.  On ErrAborted the
// messages already reviewed keep their new categories.
func (s *Session) Review(set *message.ResultSet) error {
	choices := message.Reviewable()
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label()
	}

	n := 0
	return set.Each(func(org string, m *message.Enriched) error {
		n++
		fmt.Fprintf(s.Out, "\n[%d] %s\n", n, org)
		fmt.Fprintf(s.Out, "    Subject:  %s\n", m.Subject)
		fmt.Fprintf(s.Out, "    Category: %s\n", m.Category)
		fmt.Fprintf(s.Out, "    Date:     %s\n", m.FormattedDate())
		fmt.Fprintf(s.Out, "    Preview:  %s\n", Preview(m.Body, s.PreviewChars))

		ok, err := s.Prompter.Confirm("Is this category correct?")
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		i, err := s.Prompter.Choose("Select the correct category:", labels)
		if err != nil {
			return err
		}
		m.Category = choices[i]
		fmt.Fprintf(s.Out, "    Category set to %s\n", m.Category)
		return nil
	})
}

// Preview returns the first n characters of body with line breaks
// turned into spaces.
func Preview(body string, n int) string {
	r := []rune(body)
	if n >= 0 && len(r) > n {
		r = r[:n]
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(string(r))
}
