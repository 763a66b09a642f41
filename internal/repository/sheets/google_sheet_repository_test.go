package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/mamadbah2/rakelog/internal/config"
)

func newFakeSheetsServer(t *testing.T) *httptest.Server {
	t.Helper()
	tabs := map[string][][]string{
		"SEP-26": {{"SR NO", "RAKE No", "Receipt Time"}, {"1", "1/1401", "30.09.2026/22:00"}},
		"OCT-26": {{"SR NO", "RAKE No", "Receipt Time"}, {"1", "1/1480", "17.10.2026/06:00"}, {"2", "1/1481", "18.10.2026/06:00"}},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case strings.Contains(path, "/values/"):
			rangeName := path[strings.Index(path, "/values/")+len("/values/"):]
			title := strings.Trim(rangeName, "'")
			values, ok := tabs[title]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"range": rangeName, "values": values})
		case strings.HasSuffix(path, "/spreadsheets/sheet-id"):
			_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"SEP-26"}},{"properties":{"title":"OCT-26"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestRepository(t *testing.T, server *httptest.Server) *GoogleSheetRepository {
	t.Helper()
	repo, err := NewGoogleSheetRepository(context.Background(), config.SheetsConfig{SpreadsheetID: "sheet-id"}, nil,
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestFetchTable_ConcatenatesTabs(t *testing.T) {
	server := newFakeSheetsServer(t)
	defer server.Close()

	repo := newTestRepository(t, server)
	table, err := repo.FetchTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Header) != 3 || table.Header[1] != "RAKE No" {
		t.Fatalf("unexpected header %v", table.Header)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", table.Rows)
	}
	if table.Rows[2][1] != "1/1481" {
		t.Fatalf("unexpected last row %v", table.Rows[2])
	}
}

func TestReadRange_EmptyRange(t *testing.T) {
	server := newFakeSheetsServer(t)
	defer server.Close()

	repo := newTestRepository(t, server)
	if _, err := repo.ReadRange(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty range")
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("O'Brien"); got != "'O''Brien'" {
		t.Fatalf("unexpected quoting %s", got)
	}
}
