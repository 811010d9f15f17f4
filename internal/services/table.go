package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one value in a harvested table. Dates are compared and serialized
// at day granularity.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func TextCell(value string) Cell {
	return Cell{Kind: CellText, Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: CellNumber, Number: value}
}

func DateCell(value time.Time) Cell {
	return Cell{Kind: CellDate, Date: value}
}

func (c Cell) Missing() bool {
	return c.Kind == CellEmpty
}

// String renders the canonical serialized form used in archive files and for
// existence comparisons.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Clean trims column labels and text cells and truncates date cells to day
// granularity, regardless of data type.
func (t *Table) Clean() {
	if t == nil {
		return
	}

	for i, column := range t.Columns {
		t.Columns[i] = strings.TrimSpace(column)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			switch cell.Kind {
			case CellText:
				row[i].Text = strings.TrimSpace(cell.Text)
			case CellDate:
				year, month, day := cell.Date.Date()
				row[i].Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			}
		}
	}
}

// IsPlausible reports whether the table holds usable data: it must have at
// least one row, at least one non-missing cell, and no column that is missing
// in every row.
func (t Table) IsPlausible() bool {
	if len(t.Rows) == 0 || len(t.Columns) == 0 {
		return false
	}

	for column := range t.Columns {
		allMissing := true
		for _, row := range t.Rows {
			if column < len(row) && !row[column].Missing() {
				allMissing = false
				break
			}
		}
		if allMissing {
			return false
		}
	}

	return true
}

func (t Table) columnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// Project returns the canonical string values of the named columns for every
// row, in column order.
func (t Table) Project(columns []string) ([][]string, error) {
	indexes := make([]int, 0, len(columns))
	for _, column := range columns {
		index := t.columnIndex(column)
		if index == -1 {
			return nil, fmt.Errorf("column %q not found", column)
		}
		indexes = append(indexes, index)
	}

	projected := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make([]string, 0, len(indexes))
		for _, index := range indexes {
			if index >= len(row) {
				values = append(values, "")
				continue
			}
			values = append(values, row[index].String())
		}
		projected = append(projected, values)
	}

	return projected, nil
}
