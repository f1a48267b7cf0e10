package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matta/jobmail/internal/message"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

var opts = Options{WindowDays: 30, BodyChars: 500}

func TestRenderAcmeBeta(t *testing.T) {
	set := message.NewResultSet()
	set.Add("Acme Inc", &message.Enriched{
		Subject:  "Your application",
		Sender:   "jobs@acme.com",
		Date:     time.Date(2024, 2, 6, 9, 30, 0, 0, time.Local),
		Body:     "Thank you for your application",
		Category: message.ApplicationSubmitted,
	})

	var out bytes.Buffer
	if err := Render(&out, set, []string{"Acme Inc", "Beta LLC"}, opts); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	want := "\n" + strings.Repeat("=", 80) + `
RESULTS: COMPANY EMAIL CHECK
` + strings.Repeat("=", 80) + `
Found emails from 1 companies in the last 30 days:

Messages by category:
  Application Submitted: 1

Acme Inc:
  Application Submitted (1):
    1. From: jobs@acme.com
       Subject: Your application
       Date: 2024-02-06 09:30
       Body:
         Thank you for your application


` + strings.Repeat("-", 80) + `
Companies with NO emails found:
  - Beta LLC
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := Render(&out, message.NewResultSet(), []string{"Zeta", "Beta", "Alpha", "Beta"}, opts); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "No emails found from any companies in your list.\n") {
		t.Errorf("Render() missing empty notice:\n%s", got)
	}
	if !strings.HasSuffix(got, "Companies with NO emails found:\n  - Alpha\n  - Beta\n  - Zeta\n") {
		t.Errorf("Render() zero-match list wrong:\n%s", got)
	}
}

func TestRenderGroupsAndCounts(t *testing.T) {
	set := message.NewResultSet()
	set.Add("Acme",
		&message.Enriched{Subject: "o1", Category: message.Other},
		&message.Enriched{Subject: "e1", Category: message.Error, Body: "Error retrieving message: boom"},
		&message.Enriched{Subject: "s1", Category: message.ApplicationSubmitted},
		&message.Enriched{Subject: "o2", Category: message.Other},
	)
	var out bytes.Buffer
	if err := Render(&out, set, []string{"Acme"}, opts); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"  Application Submitted: 1\n",
		"  Other:                 2\n",
		"  Error:                 1\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing count %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Interview Request:") {
		t.Errorf("Render() printed a zero count:\n%s", got)
	}
	if strings.Contains(got, "Companies with NO emails found") {
		t.Errorf("Render() listed zero-match section with none missing:\n%s", got)
	}

	var order []string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "       Subject: ") {
			order = append(order, strings.TrimPrefix(line, "       Subject: "))
		}
	}
	if diff := cmp.Diff([]string{"s1", "o1", "o2", "e1"}, order); diff != "" {
		t.Errorf("message order mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(got, "       Date: Unknown\n") {
		t.Errorf("Render() missing unknown date:\n%s", got)
	}
}

func TestRenderTruncates(t *testing.T) {
	set := message.NewResultSet()
	set.Add("Acme", &message.Enriched{Body: strings.Repeat("ä", 510), Category: message.Other})
	var out bytes.Buffer
	if err := Render(&out, set, nil, opts); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "         "+strings.Repeat("ä", 500)+"\n         [... truncated, 10 more characters]\n") {
		t.Errorf("Render() did not truncate body:\n%s", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		s       string
		n       int
		want    string
		wantCut int
	}{
		{"", 5, "", 0},
		{"hello", 5, "hello", 0},
		{"hello!", 5, "hello", 1},
		{"hello", -1, "hello", 0},
		{"héllo wörld", 7, "héllo w", 4},
	}
	for _, tc := range cases {
		got, cut := Truncate(tc.s, tc.n)
		if got != tc.want || cut != tc.wantCut {
			t.Errorf("Truncate(%q, %d) = %q, %d, want %q, %d", tc.s, tc.n, got, cut, tc.want, tc.wantCut)
		}
	}
}

type failWriter struct{ n int }

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("disk full")
}

func TestRenderWriteError(t *testing.T) {
	w := &failWriter{}
	err := Render(w, message.NewResultSet(), []string{"Acme"}, opts)
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Render() = %v, want disk full", err)
	}
	if w.n != 1 {
		t.Errorf("Render() wrote %d times after failure, want 1", w.n)
	}
}
