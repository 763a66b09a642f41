package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/rakelog/internal/config"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := []string{"SR NO", "RAKE No", "Receipt Time", "Demurrage (Hrs)"}
	sheets := map[string][][]string{
		"SEP-26": {{"1", "1/1401", "30.09.2026/22:00", "0"}},
		"OCT-26": {{"1", "1/1480", "17.10.2026/06:00", "2"}, {"", "", "", ""}, {"2", "1/1481", "18.10.2026/06:00", "1"}},
	}

	if err := f.SetSheetName("Sheet1", "SEP-26"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("OCT-26"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"SEP-26", "OCT-26"} {
		for col, h := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(name, cell, h)
		}
		for r, row := range sheets[name] {
			for col, v := range row {
				if v == "" {
					continue
				}
				_ = f.SetCellValue(name, fmt.Sprintf("%c%d", 'A'+col, r+2), v)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeWorkbook_ConcatenatesSheets(t *testing.T) {
	table, err := DecodeWorkbook(bytes.NewReader(buildWorkbook(t)))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Header) != 4 || table.Header[1] != "RAKE No" {
		t.Fatalf("unexpected header %v", table.Header)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 data rows across tabs, got %d: %v", len(table.Rows), table.Rows)
	}
	if table.Rows[0][1] != "1/1401" || table.Rows[2][1] != "1/1481" {
		t.Fatalf("unexpected row order %v", table.Rows)
	}
}

func TestFetchTable(t *testing.T) {
	workbook := buildWorkbook(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(workbook)
	}))
	defer server.Close()

	client := NewClient(config.ExportConfig{URL: server.URL})
	table, err := client.FetchTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Filter("18.10.2026").Rows; len(got) != 1 || got[0][1] != "1/1481" {
		t.Fatalf("unexpected filtered rows %v", got)
	}
}

func TestFetchTable_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(config.ExportConfig{URL: server.URL})
	if _, err := client.FetchTable(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestDecodeWorkbook_Garbage(t *testing.T) {
	if _, err := DecodeWorkbook(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error")
	}
}
