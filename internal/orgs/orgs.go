// Package orgs loads the list of organizations to check from a
// spreadsheet, CSV file or SQLite database.
package orgs

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matta/jobmail/internal/config"

	"github.com/pkg/errors"
)

var (
	// ErrMissingColumn means the source has no column with the
	// configured name.
	ErrMissingColumn = errors.New("organization column not found")

	ErrUnsupportedFormat = errors.New("unsupported organization file format")
)

// Load reads organization names from the file named in cfg.  The format
// is chosen by file extension.  Names are trimmed; empty names and
// repeats are dropped, keeping the first occurrence.
func Load(ctx context.Context, cfg config.OrganizationsConfig) ([]string, error) {
	if cfg.Path == "" {
		return nil, errors.New("no organization file configured")
	}
	var (
		names []string
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.Path)); ext {
	case ".xlsx", ".xlsm":
		names, err = loadSheet(cfg.Path, cfg.Sheet, cfg.Column)
	case ".csv":
		names, err = loadCSV(cfg.Path, cfg.Column)
	case ".db", ".sqlite", ".sqlite3":
		names, err = loadSQLite(ctx, cfg.Path, cfg.Table, cfg.Column)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading organizations from %s", cfg.Path)
	}
	return clean(names), nil
}

func clean(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// columnIndex returns the index of column in header, matching case
// insensitively and ignoring surrounding space.
func columnIndex(header []string, column string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrMissingColumn, "%q", column)
}

// columnValues returns column from rows, the first of which is the
// header.  Short rows yield empty values.
func columnValues(rows [][]string, column string) ([]string, error) {
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q: no header row", column)
	}
	i, err := columnIndex(rows[0], column)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows[1:] {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out, nil
}
