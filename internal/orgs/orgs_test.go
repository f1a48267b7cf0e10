package orgs

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/matta/jobmail/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var want = []string{"Acme Inc", "Beta LLC", "Gamma"}

func load(t *testing.T, path, column string) ([]string, error) {
	t.Helper()
	cfg := config.Default().Organizations
	cfg.Path = path
	if column != "" {
		cfg.Column = column
	}
	return Load(context.Background(), cfg)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "orgs.csv", `Status,Company_Name,Applied
sent,Acme Inc,2024-01-02
sent,  Beta LLC ,2024-01-03
short
sent,,2024-01-04
sent,Acme Inc,2024-01-05
sent,Gamma
`)
	got, err := load(t, path, "")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeFile(t, "orgs.csv", "Name\nAcme\n")
	_, err := load(t, path, "")
	if errors.Cause(err) != ErrMissingColumn {
		t.Errorf("Load() = %v, want %v", err, ErrMissingColumn)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	path := writeFile(t, "orgs.csv", "")
	_, err := load(t, path, "")
	if errors.Cause(err) != ErrMissingColumn {
		t.Errorf("Load() = %v, want %v", err, ErrMissingColumn)
	}
}

func TestLoadSheet(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"company_name", "Notes"},
		{"Acme Inc", "first"},
		{"Beta LLC"},
		{"", "blank"},
		{"Gamma", ""},
		{"Beta LLC", "again"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "orgs.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := load(t, path, "")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, err := load(t, path, "Employer"); errors.Cause(err) != ErrMissingColumn {
		t.Errorf("Load(Employer) = %v, want %v", err, ErrMissingColumn)
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE applications (id INTEGER PRIMARY KEY, Company_Name TEXT)`,
		`INSERT INTO applications (Company_Name) VALUES ('Acme Inc'), ('Beta LLC'), (NULL), ('  '), ('Gamma'), ('Acme Inc')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	got, err := load(t, path, "")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, err := load(t, path, "employer"); errors.Cause(err) != ErrMissingColumn {
		t.Errorf("Load(employer) = %v, want %v", err, ErrMissingColumn)
	}
}

func TestLoadUnsupported(t *testing.T) {
	path := writeFile(t, "orgs.txt", "Acme\n")
	if _, err := load(t, path, ""); errors.Cause(err) != ErrUnsupportedFormat {
		t.Errorf("Load() = %v, want %v", err, ErrUnsupportedFormat)
	}
	if _, err := load(t, "", ""); err == nil {
		t.Errorf("Load(\"\") = nil error, want error")
	}
}

func TestDSNFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/tmp/x.db", "file:///tmp/x.db?mode=ro"},
		{"/tmp/with space.db", "file:///tmp/with%20space.db?mode=ro"},
	}
	for _, tc := range cases {
		got, err := dsnFromPath(tc.path, url.Values{"mode": {"ro"}})
		if err != nil {
			t.Errorf("dsnFromPath(%q) error %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("dsnFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
