package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/domain/models"
)

// Client downloads the published XLSX export of the rake spreadsheet.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds an export reader for cfg.URL.
func NewClient(cfg config.ExportConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: resty.New().SetTimeout(timeout),
		url:        cfg.URL,
	}
}

// FetchTable downloads the workbook and concatenates all of its tabs.
func (c *Client) FetchTable(ctx context.Context) (models.Table, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		return models.Table{}, fmt.Errorf("download export: %w", err)
	}

	if resp.IsError() {
		return models.Table{}, fmt.Errorf("download export: unexpected status %d", resp.StatusCode())
	}

	return DecodeWorkbook(bytes.NewReader(resp.Body()))
}

// DecodeWorkbook reads every sheet of an XLSX workbook into one table.
func DecodeWorkbook(r io.Reader) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var table models.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return models.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		table.AppendSheet(rows)
	}

	return table, nil
}
