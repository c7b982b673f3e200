package frappe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Client issues JSON requests against a Frappe-compatible REST API. It holds
// the base URL, the transport handle and the credentials; it keeps no other
// state, so a single Client is safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     hclog.Logger
}

// New creates a Client from cfg, applying defaults for unset fields.
func New(cfg *Config) (*Client, error) {
	if cfg.TokenType == "" {
		cfg.TokenType = TokenTypeBearer
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TLSVerify == nil {
		defaults := DefaultConfig()
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 1 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = cfg.NewHTTPClient()
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     cfg.Logger.Named("frappe-client"),
	}, nil
}

// errorPolicy carries the per-operation failure mapping: the default message,
// and whether a server-supplied message field overrides it.
type errorPolicy struct {
	defaultMessage      string
	preferServerMessage bool
}

// do issues one request and returns the raw response body. Non-2xx responses
// and transport failures normalize to *RemoteError. Retries happen only for
// transport failures and 5xx responses, and only when MaxRetries > 0.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, policy errorPolicy) ([]byte, error) {
	u, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	endpoint := u.String()

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()

	var respBytes []byte
	attempt := func() error {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return backoff.Permanent(newTransportError(err, policy.defaultMessage))
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.config.UseToken {
			req.Header.Set("Authorization", c.config.TokenType+" "+c.config.TokenProvider())
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return newTransportError(err, policy.defaultMessage)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return newTransportError(err, policy.defaultMessage)
		}

		c.logger.Debug("request completed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
		)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			remoteErr := newRemoteError(resp.StatusCode, http.StatusText(resp.StatusCode), data, policy.defaultMessage, policy.preferServerMessage)
			if resp.StatusCode >= 500 {
				return remoteErr
			}
			return backoff.Permanent(remoteErr)
		}

		respBytes = data
		return nil
	}

	var bo backoff.BackOff = &backoff.StopBackOff{}
	if c.config.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.config.RetryDelay
		bo = backoff.WithMaxRetries(exp, uint64(c.config.MaxRetries))
	}

	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return respBytes, nil
}
