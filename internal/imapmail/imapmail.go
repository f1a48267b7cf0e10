// Package imapmail provides access to messages on an IMAP server.
//
// Message ids are UIDs in the selected mailbox, rendered in decimal.
// The mailbox is selected read only and message bodies are fetched
// with BODY.PEEK, so checking never marks mail as seen.
package imapmail

import (
	"context"
	"sort"
	"strconv"

	"github.com/matta/jobmail/internal/config"
	"github.com/matta/jobmail/internal/message"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxResults bounds a search the way a single Gmail result page does.
const maxResults = 100

var ErrMessageNotFound = errors.New("imap message not found")

type Mailbox struct {
	client *imapclient.Client
	log    *zap.SugaredLogger
}

// Dial connects to the server over TLS, logs in and selects the
// configured mailbox.
func Dial(ctx context.Context, cfg config.IMAPConfig, log *zap.SugaredLogger) (*Mailbox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := imapclient.DialTLS(cfg.Addr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to IMAP server %s", cfg.Addr)
	}
	if err := c.Login(cfg.Username, cfg.Password).Wait(); err != nil {
		c.Close()
		return nil, errors.Wrapf(err, "logging in as %s", cfg.Username)
	}
	data, err := c.Select(cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		c.Logout().Wait()
		c.Close()
		return nil, errors.Wrapf(err, "selecting mailbox %s", cfg.Mailbox)
	}
	log.Infow("selected mailbox", "mailbox", cfg.Mailbox, "messages", data.NumMessages)
	return &Mailbox{client: c, log: log}, nil
}

func (m *Mailbox) Close() error {
	if err := m.client.Logout().Wait(); err != nil {
		m.log.Debugw("logout failed", "error", err)
	}
	return m.client.Close()
}

// criteria translates q into an IMAP search.  IMAP header searches are
// case-insensitive substring matches, like Gmail's wildcards.  SINCE
// has day granularity.
func criteria(q message.Query) *imap.SearchCriteria {
	key := "From"
	if q.Field == message.SubjectField {
		key = "Subject"
	}
	return &imap.SearchCriteria{
		Since:  q.After,
		Header: []imap.SearchCriteriaHeaderField{{Key: key, Value: q.Term}},
	}
}

// newestFirst sorts uids descending, renders them and keeps at most
// maxResults.
func newestFirst(uids []imap.UID) []string {
	sort.Slice(uids, func(i, j int) bool { return uids[i] > uids[j] })
	if len(uids) > maxResults {
		uids = uids[:maxResults]
	}
	ids := make([]string, len(uids))
	for i, uid := range uids {
		ids[i] = strconv.FormatUint(uint64(uid), 10)
	}
	return ids
}

// Search returns the UIDs of the messages matching q, newest first.
func (m *Mailbox) Search(ctx context.Context, q message.Query) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := m.client.UIDSearch(criteria(q), nil).Wait()
	if err != nil {
		return nil, errors.Wrapf(err, "searching %s", q)
	}
	ids := newestFirst(data.AllUIDs())
	m.log.Debugw("searched mailbox", "query", q.String(), "count", len(ids))
	return ids, nil
}

// Fetch returns the full message with UID id.
func (m *Mailbox) Fetch(ctx context.Context, id string) (*message.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "bad message id %q", id)
	}

	section := &imap.FetchItemBodySection{Peek: true}
	cmd := m.client.Fetch(imap.UIDSetNum(imap.UID(uid)), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer cmd.Close()

	msg := cmd.Next()
	if msg == nil {
		if err := cmd.Close(); err != nil {
			return nil, errors.Wrapf(err, "fetching message %s", id)
		}
		return nil, errors.Wrapf(ErrMessageNotFound, "uid %s", id)
	}
	buf, err := msg.Collect()
	if err != nil {
		return nil, errors.Wrapf(err, "reading message %s", id)
	}
	if err := cmd.Close(); err != nil {
		return nil, errors.Wrapf(err, "fetching message %s", id)
	}

	raw := buf.FindBodySection(section)
	if raw == nil {
		return nil, errors.Errorf("message %s has no body", id)
	}
	return ParseRecord(id, raw, m.log)
}
