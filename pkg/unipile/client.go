// Package unipile wraps the Unipile messaging API for LinkedIn DMs.
package unipile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/resilience"
)

const defaultBaseURL = "https://api.unipile.com"

// Client sends LinkedIn direct messages.
type Client interface {
	SendDM(ctx context.Context, linkedinURL, message string) (*SendResult, error)
}

// SendResult reports the outcome of one DM send.
type SendResult struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"message_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithAccountID selects a Unipile account when more than one LinkedIn
// account is connected.
func WithAccountID(id string) Option {
	return func(c *httpClient) {
		c.accountID = id
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey    string
	baseURL   string
	accountID string
	http      *http.Client
	retry     resilience.RetryConfig
}

// NewClient creates a Unipile API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("unipile", "send_dm")
	for _, o := range opts {
		o(c)
	}
	return c
}

type sendRequest struct {
	RecipientURL string `json:"recipient_url"`
	Message      string `json:"message"`
	AccountID    string `json:"account_id,omitempty"`
}

type sendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *httpClient) SendDM(ctx context.Context, linkedinURL, message string) (*SendResult, error) {
	if linkedinURL == "" {
		return nil, eris.New("unipile: empty recipient url")
	}
	if message == "" {
		return nil, eris.New("unipile: empty message")
	}

	body, err := json.Marshal(sendRequest{
		RecipientURL: linkedinURL,
		Message:      message,
		AccountID:    c.accountID,
	})
	if err != nil {
		return nil, eris.Wrap(err, "unipile: marshal request")
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*SendResult, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "unipile: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "unipile: send request")
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "unipile: read response")
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			err := eris.Errorf("unipile: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var result sendResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, eris.Wrap(err, "unipile: unmarshal response")
		}

		status := result.Status
		if status == "" {
			status = "sent"
		}
		return &SendResult{OK: true, MessageID: result.ID, Status: status}, nil
	})
}
