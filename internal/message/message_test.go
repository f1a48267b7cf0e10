package message

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestQueryString(t *testing.T) {
	after := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		q    Query
		want string
	}{
		{Query{FromField, "acme", after}, "from:*acme* after:2024/01/31"},
		{Query{SubjectField, "beta", after}, "subject:*beta* after:2024/01/31"},
	}
	for _, tc := range cases {
		if got := tc.q.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.q, got, tc.want)
		}
	}
}

func TestRecordHeaderFirstWins(t *testing.T) {
	r := &Record{Headers: []Header{
		{"Received", "x"},
		{"subject", "first"},
		{"Subject", "second"},
	}}
	got, ok := r.Header("Subject")
	if !ok || got != "first" {
		t.Errorf("Header(Subject) = %q, %v, want %q, true", got, ok, "first")
	}
	if _, ok := r.Header("Date"); ok {
		t.Errorf("Header(Date) found, want missing")
	}
}

func TestCategoryNames(t *testing.T) {
	for _, c := range Categories() {
		if c.String() == "Unknown" || c.Label() == "Unknown" {
			t.Errorf("category %d has no name", int(c))
		}
	}
	if got := Category(99).String(); got != "Unknown" {
		t.Errorf("Category(99).String() = %q, want Unknown", got)
	}
	for _, c := range Reviewable() {
		if c == Error {
			t.Errorf("Reviewable() includes Error")
		}
	}
}

func TestResultSetOrder(t *testing.T) {
	s := NewResultSet()
	s.Add("Zeta", &Enriched{ID: "1"})
	s.Add("Empty")
	s.Add("Acme", &Enriched{ID: "2"})
	s.Add("Zeta", &Enriched{ID: "3"})

	if diff := cmp.Diff([]string{"Zeta", "Acme"}, s.Organizations()); diff != "" {
		t.Errorf("Organizations() mismatch (-want +got):\n%s", diff)
	}
	if s.Has("Empty") {
		t.Errorf("Has(Empty) = true, want false")
	}
	if got := s.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}

	var ids []string
	s.Each(func(org string, m *Enriched) error {
		ids = append(ids, m.ID)
		return nil
	})
	if diff := cmp.Diff([]string{"1", "3", "2"}, ids); diff != "" {
		t.Errorf("Each order mismatch (-want +got):\n%s", diff)
	}

	missing := s.Missing([]string{"Beta", "Acme", "Beta", "Empty"})
	if diff := cmp.Diff([]string{"Beta", "Empty"}, missing); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormattedDate(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Time{}, "Unknown"},
		{time.Date(2024, 12, 31, 23, 5, 0, 0, time.Local), "2024-12-31 23:05"},
	}
	for _, tc := range cases {
		m := &Enriched{Date: tc.date}
		if got := m.FormattedDate(); got != tc.want {
			t.Errorf("FormattedDate(%v) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
