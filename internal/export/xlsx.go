// Package export moves phonebook records in and out of the backing file
// format: spreadsheet export and merging of other phonebook files.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

// SheetName is the worksheet holding exported records.
const SheetName = "Contacts"

// Header is the first row of an exported sheet.
var Header = []string{"ID", "Last name", "First name", "Middle name", "Organization", "Work phone", "Personal phone"}

// WriteXLSX writes records to a new spreadsheet at path.
func WriteXLSX(path string, records []phonebook.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := setRow(f, 1, toRow(Header)); err != nil {
		return err
	}
	for i, rec := range records {
		row := []any{rec.ID}
		for _, v := range rec.Fields.Values() {
			row = append(row, v)
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// ReadXLSX reads records written by WriteXLSX. Rows that do not form a
// record are skipped and counted; blank rows are ignored.
func ReadXLSX(path string) ([]phonebook.Record, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("export: read %s: %w", path, err)
	}

	var records []phonebook.Record
	skipped := 0
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		for len(row) < phonebook.FieldCount {
			row = append(row, "")
		}
		rec, err := phonebook.ParseRecord(joinRow(row[:phonebook.FieldCount]))
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func setRow(f *excelize.File, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", n, err)
	}
	return nil
}

func toRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func joinRow(cells []string) string {
	line := cells[0]
	for _, c := range cells[1:] {
		line += phonebook.Separator + c
	}
	return line
}
