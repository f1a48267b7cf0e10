package orgs

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

func loadCSV(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing CSV")
	}
	return columnValues(rows, column)
}
