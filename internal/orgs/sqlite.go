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

package orgs

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// dsnFromPath turns a file path, or a "file:" URI, into a SQLite DSN
// carrying addValues as query parameters.
func dsnFromPath(path string, addValues url.Values) (string, error) {
	var u *url.URL
	if !strings.HasPrefix(path, "file:") {
		u = &url.URL{Scheme: "file", Path: path}
	} else {
		var err error
		u, err = url.Parse(path)
		if err != nil {
			return "", err
		}
	}
	values := u.Query()
	for k, v := range addValues {
		for _, item := range v {
			values.Add(k, item)
		}
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// quoteIdent quotes a table or column name for use in SQL.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// loadSQLite reads column from every row of table.  The database is
// opened read only; an application tracker may have it open too.
func loadSQLite(ctx context.Context, path, table, column string) ([]string, error) {
	// The _busy_timeout is a SQLite extension that controls how
	// long SQLite will poll a locked database before giving up.
	busyTimeout := int(time.Minute / time.Millisecond)

	dsn, err := dsnFromPath(path, url.Values{
		"mode":          {"ro"},
		"_busy_timeout": {fmt.Sprintf("%d", busyTimeout)}})
	if err != nil {
		return nil, errors.Wrapf(err, "could not form a DB DSN from %q", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database at %q", dsn)
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ? COLLATE NOCASE`,
		table, column).Scan(&n)
	if err != nil {
		return nil, errors.Wrapf(err, "inspecting table %q", table)
	}
	if n == 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q in table %q", column, table)
	}

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s", quoteIdent(column), quoteIdent(table)))
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %q", table)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scanning organization name")
		}
		if name.Valid {
			out = append(out, name.String)
		}
	}
	return out, errors.Wrap(rows.Err(), "reading organization names")
}
