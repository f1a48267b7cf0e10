package orgs

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// loadSheet reads column from the named sheet of an Excel workbook, or
// from the first sheet when sheet is empty.
func loadSheet(path, sheet, column string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	return columnValues(rows, column)
}
