// Package spreadsheet reads input columns out of xlsx workbooks.
//
// Collected exports circulate as spreadsheets between analysts, so the bulk
// lookup and language commands take their input this way: a workbook whose
// first sheet carries a header row naming each column.
package spreadsheet

import (
	"strings"

	"github.com/xuri/excelize/v2"

	errs "github.com/tgsn-co/XPlore/pkg/errors"
)

// ReadColumn returns the non-blank values of the named column from the first
// sheet of the workbook at path.
//
// The header match is case-sensitive against row 1. Values come back as raw
// cell strings, never parsed as numbers, so long numeric IDs survive without
// scientific-notation mangling. Blank cells are skipped.
func ReadColumn(path, column string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeValidation, "failed to open spreadsheet "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, "spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeValidation, "failed to read sheet "+sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errs.Newf(errs.ErrorTypeValidation, "sheet %s is empty", sheets[0])
	}

	header := rows[0]
	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errs.Newf(errs.ErrorTypeValidation,
			"column %q not found, available columns: %s", column, strings.Join(header, ", "))
	}

	var values []string
	for _, row := range rows[1:] {
		// Trailing blank cells are trimmed from each row
		if idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		if value == "" {
			continue
		}
		values = append(values, value)
	}

	return values, nil
}
