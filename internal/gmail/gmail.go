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

package gmail

import (
	"context"
	"net/http"

	"github.com/matta/jobmail/internal/message"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	gmail_api "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	ReadonlyScope = gmail_api.GmailReadonlyScope

	// See https://developers.google.com/gmail/api/reference/quota
	quotaUnitsMessagesGet     = 5
	quotaUnitsPerMessagesList = 5

	quotaUnitsPerSecond = 250
	rateLimitPerSecond  = quotaUnitsPerSecond * 0.8
	rateLimitBurst      = quotaUnitsPerSecond

	// Gmail's default page size.  Only the first page of a search
	// is used.
	maxResults = 100

	// Rate limited calls are repeated at most this many times.
	maxRetries = 5
)

var (
	ErrMessageNotFound = errors.New("gmail message not found")
)

// Service provides access to messages stored in Google's Gmail
// system.
type Service struct {
	service *gmail_api.Service
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// New returns a Service.  Callers normally pass
// option.WithHTTPClient with an authorized client.
func New(ctx context.Context, log *zap.SugaredLogger, opts ...option.ClientOption) (*Service, error) {
	s, err := gmail_api.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating gmail service")
	}
	l := rate.NewLimiter(rateLimitPerSecond, rateLimitBurst)
	return &Service{service: s, limiter: l, log: log}, nil
}

// Search returns the ids of the messages matching q, newest first.
// Only the first page of results is returned.
func (s *Service) Search(ctx context.Context, q message.Query) ([]string, error) {
	query := q.String()
	for attempt := 1; ; attempt++ {
		if err := s.limiter.WaitN(ctx, quotaUnitsPerMessagesList); err != nil {
			return nil, err
		}
		page, err := s.service.Users.Messages.List("me").
			Context(ctx).Q(query).MaxResults(maxResults).Do()
		if s.retry(err, attempt, "query", query) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "listing gmail messages for %q", query)
		}
		ids := make([]string, 0, len(page.Messages))
		for _, m := range page.Messages {
			ids = append(ids, m.Id)
		}
		s.log.Debugw("searched gmail", "query", query, "count", len(ids), "more", page.NextPageToken != "")
		return ids, nil
	}
}

// Fetch returns the full message id.
func (s *Service) Fetch(ctx context.Context, id string) (*message.Record, error) {
	msg, err := s.getMessage(ctx, id, s.service.Users.Messages.Get("me", id).
		Context(ctx).Format("full"))
	if err != nil {
		return nil, errors.Wrapf(err, "getting message %v from gmail", id)
	}
	rec := &message.Record{ID: msg.Id}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			rec.Headers = append(rec.Headers, message.Header{Name: h.Name, Value: h.Value})
		}
		rec.Payload = toPart(msg.Payload)
	}
	return rec, nil
}

func (s *Service) getMessage(ctx context.Context, id string, call *gmail_api.UsersMessagesGetCall) (*gmail_api.Message, error) {
	for attempt := 1; ; attempt++ {
		if err := s.limiter.WaitN(ctx, quotaUnitsMessagesGet); err != nil {
			return nil, err
		}
		msg, err := call.Do()
		if err == nil {
			return msg, nil
		}
		if s.retry(err, attempt, "id", id) {
			continue
		}
		if notFound(err) {
			s.log.Warnw("message not found", "error", err)
			err = ErrMessageNotFound
		}
		return nil, err
	}
}

// retry reports whether err is a rate limit response worth retrying
// after attempt tries.  Once maxRetries is used up the error stands.
func (s *Service) retry(err error, attempt int, keysAndValues ...interface{}) bool {
	if !rateLimited(err) {
		return false
	}
	if attempt > maxRetries {
		s.log.Warnw("gmail rate limit persists; giving up",
			append(keysAndValues, "attempts", attempt)...)
		return false
	}
	s.log.Infow("gmail rate limited; retrying",
		append(keysAndValues, "attempt", attempt, "max", maxRetries)...)
	return true
}

func rateLimited(err error) bool {
	cause, ok := errors.Cause(err).(*googleapi.Error)
	return ok && cause.Code == http.StatusTooManyRequests
}

func notFound(err error) bool {
	cause, ok := errors.Cause(err).(*googleapi.Error)
	if !ok || cause.Code != http.StatusNotFound {
		return false
	}
	for _, item := range cause.Errors {
		if item.Reason == "notFound" {
			return true
		}
	}
	return false
}

// toPart converts a Gmail payload tree.  Gmail's body data is already
// base64url encoded.  Parts Gmail stores separately, such as large
// attachments, arrive with an attachment id and no data.
func toPart(p *gmail_api.MessagePart) *message.Part {
	part := &message.Part{MimeType: p.MimeType}
	if p.Body != nil {
		part.Data = p.Body.Data
	}
	for _, c := range p.Parts {
		if c != nil {
			part.Parts = append(part.Parts, toPart(c))
		}
	}
	return part
}
