// Package slack wraps the Slack Web API for posting replies into the
// intake channel.
package slack

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

const defaultBaseURL = "https://slack.com/api"

// Client posts messages to Slack channels.
type Client interface {
	PostMessage(ctx context.Context, channel, threadTS, text string) error
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
	botToken string
	baseURL  string
	http     *http.Client
	retry    resilience.RetryConfig
}

// NewClient creates a Slack Web API client authenticated as the bot.
func NewClient(botToken string, opts ...Option) Client {
	c := &httpClient{
		botToken: botToken,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("slack", "post_message")
	for _, o := range opts {
		o(c)
	}
	return c
}

type postMessageRequest struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

// apiResponse is the common Web API envelope. Slack reports failures
// with HTTP 200 and ok=false.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *httpClient) PostMessage(ctx context.Context, channel, threadTS, text string) error {
	if channel == "" {
		return eris.New("slack: empty channel")
	}
	if text == "" {
		return eris.New("slack: empty message text")
	}

	body, err := json.Marshal(postMessageRequest{
		Channel:  channel,
		Text:     text,
		ThreadTS: threadTS,
	})
	if err != nil {
		return eris.Wrap(err, "slack: marshal request")
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
		if err != nil {
			return eris.Wrap(err, "slack: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
		httpReq.Header.Set("Authorization", "Bearer "+c.botToken)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return eris.Wrap(err, "slack: send request")
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "slack: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("slack: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(err, resp.StatusCode)
			}
			return err
		}

		var result apiResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return eris.Wrap(err, "slack: unmarshal response")
		}
		if !result.OK {
			// rate_limited comes back as ok=false on a 200.
			err := eris.Errorf("slack: api error: %s", result.Error)
			if result.Error == "rate_limited" || result.Error == "ratelimited" {
				return resilience.NewTransientError(err, http.StatusTooManyRequests)
			}
			return err
		}
		return nil
	})
}
