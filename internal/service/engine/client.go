package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
	xhttp "BackScan/pkg/http"
)

// Client talks to the remote backtest engine over HTTP JSON. It centralizes
// client construction and request handling; outcome classification is the
// caller's job. A zero timeout means calls may block indefinitely — the
// engine has no per-call deadline of its own, and a hung call stalls the
// scan rather than being silently retried.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// Config holds the engine endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient builds an engine client for the given base URL.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
	}
}

// RunBacktest executes one backtest call. The returned envelope carries both
// success and business failure; a non-nil error means the call itself failed.
func (c *Client) RunBacktest(ctx context.Context, req models.EngineBacktestRequest) (*models.EngineBacktestResponse, error) {
	var resp models.EngineBacktestResponse
	if err := c.postJSON(ctx, "/api/backtest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Klines fetches raw candles for one symbol and range.
func (c *Client) Klines(ctx context.Context, req models.EngineKlinesRequest) (*models.EngineKlinesResponse, error) {
	var resp models.EngineKlinesResponse
	if err := c.postJSON(ctx, "/api/klines", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Symbols fetches the tradable instrument catalog. The engine reports its
// own failures inside the envelope; both kinds surface as errors here since
// a catalog miss is a run-level condition either way.
func (c *Client) Symbols(ctx context.Context) ([]models.SymbolInfo, error) {
	var resp models.EngineSymbolsResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/symbols",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get symbols: %w", err)
	}
	if !resp.Success {
		if resp.Error == "" {
			resp.Error = "unknown error"
		}
		return nil, fmt.Errorf("symbol catalog: %s", resp.Error)
	}
	return resp.Data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, dest interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("engine client not configured")
	}
	resp, err := c.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	})
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("post %s: read body: %w", path, err)
	}

	// The engine reports business failures inside its envelope alongside a
	// non-2xx status. Decode those; only an undecodable body is a transport
	// error.
	if err := json.Unmarshal(body, dest); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("post %s: unexpected status %d: %s", path, resp.StatusCode, body)
		}
		return fmt.Errorf("post %s: decode json: %w", path, err)
	}
	return nil
}

var _ drepo.Engine = (*Client)(nil)
