// Package smartlead wraps the Smartlead email automation API. Sending
// a single outreach email means creating a one-off campaign and adding
// the recipient as its only lead.
package smartlead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/resilience"
)

const defaultBaseURL = "https://api.smartlead.ai/api/v1"

// Client sends outreach emails through Smartlead campaigns.
type Client interface {
	SendEmail(ctx context.Context, email, subject, body string) (*SendResult, error)
}

// SendResult reports the outcome of one email send.
type SendResult struct {
	OK         bool   `json:"ok"`
	CampaignID string `json:"campaign_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithCampaignID reuses an existing campaign instead of creating a
// one-off campaign per send.
func WithCampaignID(id string) Option {
	return func(c *httpClient) {
		c.campaignID = id
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey     string
	baseURL    string
	campaignID string
	http       *http.Client
	retry      resilience.RetryConfig
}

// NewClient creates a Smartlead API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("smartlead", "send_email")
	for _, o := range opts {
		o(c)
	}
	return c
}

type createCampaignRequest struct {
	CampaignName string `json:"campaign_name"`
	EmailSubject string `json:"email_subject"`
	EmailBody    string `json:"email_body"`
}

type createCampaignResponse struct {
	CampaignID string `json:"campaign_id"`
}

type addLeadsRequest struct {
	Leads []campaignLead `json:"leads"`
}

type campaignLead struct {
	Email string `json:"email"`
}

func (c *httpClient) SendEmail(ctx context.Context, email, subject, body string) (*SendResult, error) {
	if email == "" {
		return nil, eris.New("smartlead: empty recipient email")
	}

	campaignID := c.campaignID
	if campaignID == "" {
		id, err := c.createCampaign(ctx, fmt.Sprintf("Single Email - %s", email), subject, body)
		if err != nil {
			return nil, err
		}
		campaignID = id
	}

	if err := c.addLead(ctx, campaignID, email); err != nil {
		return nil, err
	}

	return &SendResult{OK: true, CampaignID: campaignID, Email: email}, nil
}

func (c *httpClient) createCampaign(ctx context.Context, name, subject, emailBody string) (string, error) {
	body, err := json.Marshal(createCampaignRequest{
		CampaignName: name,
		EmailSubject: subject,
		EmailBody:    emailBody,
	})
	if err != nil {
		return "", eris.Wrap(err, "smartlead: marshal campaign request")
	}

	respBody, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, "/campaigns", body)
	})
	if err != nil {
		return "", err
	}

	var result createCampaignResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "smartlead: unmarshal campaign response")
	}
	if result.CampaignID == "" {
		return "", eris.New("smartlead: campaign created without an id")
	}
	return result.CampaignID, nil
}

func (c *httpClient) addLead(ctx context.Context, campaignID, email string) error {
	body, err := json.Marshal(addLeadsRequest{
		Leads: []campaignLead{{Email: email}},
	})
	if err != nil {
		return eris.Wrap(err, "smartlead: marshal leads request")
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		_, err := c.post(ctx, "/campaigns/"+campaignID+"/leads", body)
		return err
	})
}

func (c *httpClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "smartlead: create request %s", path)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "smartlead: send request %s", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "smartlead: read response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := eris.Errorf("smartlead: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return respBody, nil
}
