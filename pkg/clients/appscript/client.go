package appscript

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/domain/rake"
)

// Client posts rake rows to the spreadsheet automation endpoint.
type Client interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) error
}

// APIClient is a resty-backed implementation of Client. It never retries.
type APIClient struct {
	httpClient  *resty.Client
	endpointURL string
}

// NewClient builds a client posting to cfg.EndpointURL.
func NewClient(cfg config.SubmissionConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &APIClient{
		httpClient:  restyClient,
		endpointURL: cfg.EndpointURL,
	}
}

// Submit posts the payload once. Only HTTP 200 counts as success; every other
// outcome is returned wrapped in rake.ErrTransport.
func (c *APIClient) Submit(ctx context.Context, payload models.SubmissionPayload) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.endpointURL)
	if err != nil {
		return fmt.Errorf("%w: post rake %s: %v", rake.ErrTransport, payload.RakeNo, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d: %s", rake.ErrTransport, resp.StatusCode(), truncate(resp.String(), 200))
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
