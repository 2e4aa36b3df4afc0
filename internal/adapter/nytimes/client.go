package nytimes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
)

// Client downloads and parses the state and county CSVs.
// It implements pipeline.Source.
type Client struct {
	httpClient  *http.Client
	statesURL   string
	countiesURL string
	logger      *slog.Logger
}

// NewClient creates a client for the given CSV URLs.
func NewClient(statesURL, countiesURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		statesURL:   statesURL,
		countiesURL: countiesURL,
		logger:      logger,
	}
}

// States fetches us-states.csv.
func (c *Client) States(ctx context.Context) ([]domain.Record, error) {
	return c.fetch(ctx, c.statesURL, "states", domain.ParseStateCSV)
}

// Counties fetches us-counties.csv.
func (c *Client) Counties(ctx context.Context) ([]domain.Record, error) {
	return c.fetch(ctx, c.countiesURL, "counties", domain.ParseCountyCSV)
}

func (c *Client) fetch(ctx context.Context, url, dataset string, parse func(io.Reader) ([]domain.Record, error)) ([]domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	c.logger.Debug("fetching csv", "dataset", dataset, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s csv request: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s csv: status %d: %s", dataset, resp.StatusCode, body)
	}

	records, err := parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s csv: %w", dataset, err)
	}
	return records, nil
}
