// Package categorize assigns an application-lifecycle category to a
// message body using ordered keyword rules.
//
// Rules are evaluated in a fixed order and the first match wins:
// submission keywords, then interview keywords, then rejection
// keywords, then the acknowledgement word groups, then the
// organization name together with a related word.  Interview is
// checked before rejection so that an invitation which also contains
// rejection-like wording stays an invitation.
package categorize

import (
	"strings"

	"github.com/matta/jobmail/internal/config"
	"github.com/matta/jobmail/internal/message"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rule maps a keyword to the category it implies.
type rule struct {
	category message.Category
	keyword  string
}

// Categorizer classifies message bodies.  The case mapper it holds is
// stateful, so a Categorizer must not be shared between goroutines.
type Categorizer struct {
	rules           []rule
	acknowledgement [][]string
	related         []string
	lower           cases.Caser
}

// New returns a Categorizer for the keyword lists in kw.
func New(kw config.KeywordsConfig) *Categorizer {
	c := &Categorizer{lower: cases.Lower(language.Und)}
	c.related = c.lowerAll(kw.Related)
	add := func(cat message.Category, words []string) {
		for _, w := range c.lowerAll(words) {
			c.rules = append(c.rules, rule{cat, w})
		}
	}
	add(message.ApplicationSubmitted, kw.Submission)
	add(message.InterviewRequest, kw.Interview)
	add(message.ApplicationRejected, kw.Rejection)
	for _, group := range kw.Acknowledgement {
		if g := c.lowerAll(group); len(g) > 0 {
			c.acknowledgement = append(c.acknowledgement, g)
		}
	}
	return c
}

// lowerAll lower cases words and drops empty ones, which would
// otherwise match every body.
func (c *Categorizer) lowerAll(words []string) []string {
	var out []string
	for _, w := range words {
		if w = c.lower.String(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Categorize returns the category of a message body.  org is the
// organization's display name.
func (c *Categorizer) Categorize(body, org string) message.Category {
	cat, _ := c.Explain(body, org)
	return cat
}

// Explain is Categorize, also returning a description of the rule that
// decided the category.
func (c *Categorizer) Explain(body, org string) (message.Category, string) {
	if body == "" {
		return message.Other, "empty body"
	}
	text := c.lower.String(body)

	for _, r := range c.rules {
		if strings.Contains(text, r.keyword) {
			return r.category, "keyword " + r.keyword
		}
	}

	for _, group := range c.acknowledgement {
		if containsAll(text, group) {
			return message.ApplicationSubmitted, "words " + strings.Join(group, "+")
		}
	}

	if name := c.lower.String(strings.TrimSpace(org)); name != "" && strings.Contains(text, name) {
		for _, w := range c.related {
			if strings.Contains(text, w) {
				return message.ApplicationRelated, "organization name + " + w
			}
		}
	}

	return message.Other, "no rule matched"
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
