package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named rectangular block of formatted cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// TableSheet formats a table as a Sheet.
func TableSheet(name string, t *Table) Sheet {
	rows := make([][]string, t.Rows())
	for i := range rows {
		rows[i] = t.Record(i)
	}
	return Sheet{Name: name, Header: t.Names(), Rows: rows}
}

// WriteCSV writes the table to path, overwriting any existing file. Nulls are
// written as empty cells.
func WriteCSV(path string, t *Table) error {
	s := TableSheet(filepath.Base(path), t)
	return WriteRecords(path, s.Header, s.Rows)
}

// WriteRecords writes a header and rows as CSV to path, overwriting any existing file.
func WriteRecords(path string, header []string, rows [][]string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteWorkbook writes each sheet to an XLSX workbook at path, overwriting any
// existing file. Cells that parse as numbers are stored as numbers.
func WriteWorkbook(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets", path)
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		name := s.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}

		if err := writeSheetRow(f, name, 1, s.Header); err != nil {
			return err
		}
		for r, row := range s.Rows {
			if err := writeSheetRow(f, name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		if v, ok := ParseNumber(c); ok {
			values[i] = v
		} else {
			values[i] = c
		}
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write sheet %q row %d: %w", sheet, row, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
