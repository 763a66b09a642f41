package models

import "strings"

// Table is the spreadsheet export flattened into a single header plus rows,
// with every tab concatenated in order.
type Table struct {
	Header []string
	Rows   [][]string
}

// AppendSheet adds one tab's rows. The first sheet appended supplies the
// header; the first row of every later sheet is its own header and is dropped.
// Blank rows are skipped.
func (t *Table) AppendSheet(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	if t.Header == nil {
		t.Header = trimCells(rows[0])
	}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, trimCells(row))
	}
}

// Filter keeps the rows where any cell contains needle.
func (t Table) Filter(needle string) Table {
	out := Table{Header: t.Header}
	if needle == "" {
		out.Rows = t.Rows
		return out
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			if strings.Contains(cell, needle) {
				out.Rows = append(out.Rows, row)
				break
			}
		}
	}
	return out
}

// Tail returns at most the last n rows.
func (t Table) Tail(n int) [][]string {
	if n <= 0 || n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[len(t.Rows)-n:]
}

// Column returns the index of the header matching one of names, ignoring
// case and surrounding spaces, or -1.
func (t Table) Column(names ...string) int {
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		for _, name := range names {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

// Cell is a bounds-safe accessor.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
