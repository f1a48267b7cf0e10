// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package check drives a run: it locates, enriches and collects the
// messages for each organization in turn.
package check

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/matta/jobmail/internal/categorize"
	"github.com/matta/jobmail/internal/config"
	"github.com/matta/jobmail/internal/enrich"
	"github.com/matta/jobmail/internal/locate"
	"github.com/matta/jobmail/internal/message"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Checker runs the locate and enrich steps for each organization.
type Checker struct {
	Locator  *locate.Locator
	Enricher *enrich.Enricher

	// At most MaxMessages messages are enriched per organization.
	// Zero or less means no limit beyond the provider's page size.
	MaxMessages int

	// Progress transcript.
	Out io.Writer
	Log *zap.SugaredLogger
}

// New returns a Checker that searches and fetches through p, using the
// search window, message cap, suffixes and keywords of cfg.  The window
// is measured back from now.
func New(p MailProvider, cfg *config.Config, now time.Time, out io.Writer, log *zap.SugaredLogger) *Checker {
	return &Checker{
		Locator: locate.New(p, cfg.Search.LegalSuffixes, now, cfg.Search.WindowDays),
		Enricher: &enrich.Enricher{
			Fetcher:     p,
			Categorizer: categorize.New(cfg.Keywords),
			Log:         log,
		},
		MaxMessages: cfg.Search.MaxMessages,
		Out:         out,
		Log:         log,
	}
}

// Run checks each organization in order and returns the messages found.
// Organizations whose search fails are logged and left out.  Run stops
// early, returning what it has so far, when ctx is cancelled.
func (c *Checker) Run(ctx context.Context, orgs []string) *message.ResultSet {
	set := message.NewResultSet()
	for i, org := range orgs {
		if ctx.Err() != nil {
			c.Log.Warnw("check interrupted", "remaining", len(orgs)-i, "error", ctx.Err())
			break
		}
		c.checkOne(ctx, org, set)
	}
	return set
}

func (c *Checker) checkOne(ctx context.Context, org string, set *message.ResultSet) {
	fmt.Fprintf(c.Out, "Checking emails from %s...\n", org)

	ids, src, err := c.Locator.Locate(ctx, org)
	if err != nil {
		if errors.Cause(err) == locate.ErrEmptyTerm {
			c.Log.Warnw("skipping organization without a searchable name", "organization", org)
		} else {
			c.Log.Errorw("search failed; skipping organization", "organization", org, "error", err)
		}
		return
	}

	switch src {
	case locate.SourceSender:
		fmt.Fprintf(c.Out, "  Found %d emails from %s\n", len(ids), org)
	case locate.SourceSubject:
		fmt.Fprintf(c.Out, "  Found %d emails mentioning %s in subject\n", len(ids), org)
	default:
		fmt.Fprintf(c.Out, "  No emails found from or mentioning %s\n", org)
		return
	}

	if c.MaxMessages > 0 && len(ids) > c.MaxMessages {
		c.Log.Debugw("capping messages", "organization", org, "found", len(ids), "max", c.MaxMessages)
		ids = ids[:c.MaxMessages]
	}
	for _, id := range ids {
		set.Add(org, c.Enricher.Enrich(ctx, id, org))
	}
}
