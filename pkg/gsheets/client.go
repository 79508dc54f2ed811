// Package gsheets wraps the Google Sheets values API used as the lead
// intake queue.
package gsheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/resilience"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Client reads and writes rows in one spreadsheet tab.
type Client interface {
	ReadRows(ctx context.Context, rangeName string) ([][]string, error)
	UpdateRow(ctx context.Context, rowIndex int, values []string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey        string
	spreadsheetID string
	sheetName     string
	baseURL       string
	http          *http.Client
	retry         resilience.RetryConfig
}

// NewClient creates a Sheets client bound to one spreadsheet tab.
func NewClient(apiKey, spreadsheetID, sheetName string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		baseURL:       defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("gsheets", "values")
	for _, o := range opts {
		o(c)
	}
	return c
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

type valuesBody struct {
	Values [][]string `json:"values"`
}

// ReadRows fetches the given A1 range (e.g. "A:Z") as rows of cells.
// Short rows come back as-is; callers pad against the header length.
func (c *httpClient) ReadRows(ctx context.Context, rangeName string) ([][]string, error) {
	if rangeName == "" {
		rangeName = "A:Z"
	}
	fullRange := url.PathEscape(fmt.Sprintf("%s!%s", c.sheetName, rangeName))
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s&majorDimension=ROWS",
		c.baseURL, c.spreadsheetID, fullRange, url.QueryEscape(c.apiKey))

	respBody, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, err
	}

	var result valuesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "gsheets: unmarshal values")
	}
	return result.Values, nil
}

// UpdateRow overwrites one sheet row. rowIndex is 1-based and counts
// the header row, so the first data row is 2.
func (c *httpClient) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	if rowIndex < 1 {
		return eris.Errorf("gsheets: invalid row index %d", rowIndex)
	}

	body, err := json.Marshal(valuesBody{Values: [][]string{values}})
	if err != nil {
		return eris.Wrap(err, "gsheets: marshal values")
	}

	fullRange := url.PathEscape(fmt.Sprintf("%s!A%d", c.sheetName, rowIndex))
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s&valueInputOption=RAW",
		c.baseURL, c.spreadsheetID, fullRange, url.QueryEscape(c.apiKey))

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		_, err := c.do(ctx, http.MethodPut, endpoint, body)
		return err
	})
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: create request")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("gsheets: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return respBody, nil
}
