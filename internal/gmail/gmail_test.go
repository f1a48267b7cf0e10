package gmail

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matta/jobmail/internal/message"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
	"google.golang.org/api/option"
)

func newTestService(t *testing.T, h http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, err := New(context.Background(), zaptest.NewLogger(t).Sugar(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSearch(t *testing.T) {
	var gotQuery string
	calls := 0
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/gmail/v1/users/me/messages" {
			t.Errorf("request path = %q", r.URL.Path)
		}
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"code":429,"message":"slow down"}}`)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"messages":[{"id":"m2","threadId":"t"},{"id":"m1","threadId":"t"}],"nextPageToken":"more"}`)
	}))

	q := message.Query{
		Field: message.FromField,
		Term:  "acme",
		After: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	ids, err := s.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if diff := cmp.Diff([]string{"m2", "m1"}, ids); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
	if want := "from:*acme* after:2024/01/31"; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRateLimitGivesUp(t *testing.T) {
	cases := []struct {
		name string
		call func(s *Service) error
	}{
		{"search", func(s *Service) error {
			_, err := s.Search(context.Background(), message.Query{Term: "acme"})
			return err
		}},
		{"fetch", func(s *Service) error {
			_, err := s.Fetch(context.Background(), "m1")
			return err
		}},
	}
	for _, tc := range cases {
		calls := 0
		s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"code":429,"message":"slow down"}}`)
		}))
		err := tc.call(s)
		if !rateLimited(err) {
			t.Errorf("%s: error = %v, want a 429 error", tc.name, err)
		}
		if want := maxRetries + 1; calls != want {
			t.Errorf("%s: calls = %d, want %d", tc.name, calls, want)
		}
	}
}

func TestSearchError(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"nope"}}`)
	}))
	if _, err := s.Search(context.Background(), message.Query{Term: "x"}); err == nil {
		t.Errorf("Search() = nil error, want error")
	}
}

func TestFetch(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "full" {
			t.Errorf("format = %q, want full", got)
		}
		switch r.URL.Path {
		case "/gmail/v1/users/me/messages/m1":
			fmt.Fprint(w, `{
  "id": "m1",
  "payload": {
    "mimeType": "multipart/alternative",
    "headers": [
      {"name": "From", "value": "jobs@acme.com"},
      {"name": "Subject", "value": "Hi"}
    ],
    "body": {"size": 0},
    "parts": [
      {"mimeType": "text/plain", "body": {"data": "SGk"}},
      {"mimeType": "text/html", "body": {"data": "PGI-SGk8L2I-"}}
    ]
  }
}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"Requested entity was not found.","errors":[{"reason":"notFound","message":"Requested entity was not found."}]}}`)
		}
	}))

	rec, err := s.Fetch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Fetch() = %v", err)
	}
	want := &message.Record{
		ID: "m1",
		Headers: []message.Header{
			{Name: "From", Value: "jobs@acme.com"},
			{Name: "Subject", Value: "Hi"},
		},
		Payload: &message.Part{
			MimeType: "multipart/alternative",
			Parts: []*message.Part{
				{MimeType: "text/plain", Data: "SGk"},
				{MimeType: "text/html", Data: "PGI-SGk8L2I-"},
			},
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Fetch(context.Background(), "gone")
	if errors.Cause(err) != ErrMessageNotFound {
		t.Errorf("Fetch(gone) = %v, want %v", err, ErrMessageNotFound)
	}
}
