// Package findymail wraps the Findymail email-finder API for contact
// discovery from social handles.
package findymail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/resilience"
)

const defaultBaseURL = "https://api.findymail.com"

// Client resolves email addresses from identity fragments.
type Client interface {
	FindEmail(ctx context.Context, req FindRequest) (*Contact, error)
	FindFromHandle(ctx context.Context, handle, platform string) (*Contact, error)
}

// FindRequest carries whatever identifiers are known. All fields are
// optional; empty fields are omitted from the API call.
type FindRequest struct {
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Domain          string `json:"domain,omitempty"`
	LinkedInURL     string `json:"linkedin_url,omitempty"`
	TwitterHandle   string `json:"twitter_handle,omitempty"`
	InstagramHandle string `json:"instagram_handle,omitempty"`
}

// Contact is a discovery result. Email is empty when nothing was
// found; Status carries the API's disposition.
type Contact struct {
	Email       string   `json:"email"`
	Confidence  float64  `json:"confidence"`
	LinkedInURL string   `json:"linkedin_url,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	Status      string   `json:"status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a Findymail API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("findymail", "find_email")
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) FindEmail(ctx context.Context, req FindRequest) (*Contact, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "findymail: marshal request")
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Contact, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/email-finder", bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "findymail: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "findymail: send request")
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "findymail: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("findymail: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var contact Contact
		if err := json.Unmarshal(respBody, &contact); err != nil {
			return nil, eris.Wrap(err, "findymail: unmarshal response")
		}
		if contact.Status == "" {
			contact.Status = "unknown"
		}
		contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))

		return &contact, nil
	})
}

// FindFromHandle routes a social handle to the matching finder field.
// Only instagram and twitter handles are resolvable; other platforms
// return an unsupported_platform contact with no error.
func (c *httpClient) FindFromHandle(ctx context.Context, handle, platform string) (*Contact, error) {
	switch strings.ToLower(platform) {
	case "instagram":
		return c.FindEmail(ctx, FindRequest{InstagramHandle: handle})
	case "twitter", "x":
		return c.FindEmail(ctx, FindRequest{TwitterHandle: handle})
	default:
		return &Contact{Status: "unsupported_platform"}, nil
	}
}
