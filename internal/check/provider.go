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

package check

import (
	"github.com/matta/jobmail/internal/enrich"
	"github.com/matta/jobmail/internal/locate"
)

// MessageSearcher finds message identifiers in a mailbox.
type MessageSearcher = locate.Searcher

// MessageFetcher gets complete messages from a mailbox.
type MessageFetcher = enrich.Fetcher

// MailProvider provides all the mailbox actions a check needs.  Both
// the Gmail and IMAP backends satisfy it.
type MailProvider interface {
	MessageSearcher
	MessageFetcher
}
