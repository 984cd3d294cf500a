// Package yahoo implements the provider Source over the public Yahoo
// Finance quote endpoints: quoteSummary for the info snapshot, the
// fundamentals timeseries for quarterly statements and the chart endpoint
// for spot exchange rates.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"

	appconfig "fundflow/config"
	"fundflow/logger"
	"fundflow/reader"
)

// Client fetches raw disclosures for one security at a time. It holds no
// per-security state; one instance serves a whole run.
type Client struct {
	config *appconfig.Config
	client *http.Client
	log    *logger.Log
}

var _ reader.Source = (*Client)(nil)

// NewClient builds a provider client using the configured connection pool
// and timeout.
func NewClient(cfg *appconfig.Config) *Client {
	log := logger.GetLogger()

	transport := &http.Transport{
		MaxIdleConns:        cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Provider.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Provider.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Provider.ConnectionPool.IdleConnTimeout,
	}

	httpClient := &http.Client{
		Transport: userAgentTransport{agent: cfg.Provider.UserAgent, base: transport},
		Timeout:   cfg.Provider.Timeout,
	}

	log.WithComponent("yahoo_reader").WithFields(logger.Fields{
		"max_idle_conns":     cfg.Provider.ConnectionPool.MaxIdleConns,
		"max_conns_per_host": cfg.Provider.ConnectionPool.MaxConnsPerHost,
		"timeout":            cfg.Provider.Timeout,
	}).Info("provider client initialized")

	return &Client{
		config: cfg,
		client: httpClient,
		log:    log,
	}
}

// get performs a GET against the provider and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
