package frappe

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// Token types accepted by Frappe-compatible servers. They select how the
// Authorization header is composed: "Bearer <token>" for OAuth-style bearer
// tokens, or "token <api_key:api_secret>" for API key pairs.
const (
	TokenTypeBearer = "Bearer"
	TokenTypeToken  = "token"
)

// TokenProvider supplies the raw credential string for a request. It is
// invoked lazily, once per outgoing request, and may be called concurrently;
// implementations must be idempotent.
type TokenProvider func() string

// Config contains configuration for a Client.
type Config struct {
	// BaseURL is the root URL of the remote service, without the /api prefix.
	// Example: "https://erp.example.com"
	BaseURL string

	// UseToken enables token authentication. When false no Authorization
	// header is sent (cookie-based sessions are the transport's business).
	UseToken bool

	// TokenProvider returns the credential attached to each request.
	// Required when UseToken is true.
	TokenProvider TokenProvider

	// TokenType selects the Authorization scheme, TokenTypeBearer or
	// TokenTypeToken. Default: TokenTypeBearer.
	TokenType string

	// Timeout for each HTTP request.
	// Default: 30 seconds
	Timeout time.Duration

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development with self-signed certs.
	TLSVerify *bool

	// MaxRetries is the number of additional attempts for transport
	// failures and 5xx responses. Default 0: operations never retry unless
	// the caller opts in.
	MaxRetries int

	// RetryDelay is the initial backoff between retries.
	// Default: 1 second
	RetryDelay time.Duration

	// Logger for request/response debug lines (optional).
	Logger hclog.Logger

	// HTTPClient overrides the transport handle built from the fields above.
	// Timeouts, pooling and TLS policy of a supplied client are the caller's
	// business.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TokenType:  TokenTypeBearer,
		Timeout:    30 * time.Second,
		TLSVerify:  &tlsVerify,
		RetryDelay: 1 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.TokenType, validation.In(TokenTypeBearer, TokenTypeToken)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	if c.UseToken && c.TokenProvider == nil {
		return fmt.Errorf("token provider is required when token auth is enabled")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got: %v", c.Timeout)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative, got: %v", c.RetryDelay)
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client for this config.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
