// Package license verifies license keys against the licensing API and
// resolves the entitlement tier they grant.
package license

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/sanitize"
)

var (
	// ErrInvalidLicense is returned when the API rejects the key.
	ErrInvalidLicense = errors.New("license key is not valid")
	// ErrRateLimited is returned when too many verification attempts were made recently.
	ErrRateLimited = errors.New("too many license verification attempts")
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

// Config holds client configuration.
type Config struct {
	Endpoint      string
	ProductID     string
	Timeout       time.Duration
	MaxAttempts   int
	AttemptWindow time.Duration
	// Now supplies the time used for rate limiting. Defaults to time.Now.
	Now        func() time.Time
	HTTPClient *http.Client
}

// Client verifies license keys.
type Client struct {
	endpoint   string
	productID  string
	httpClient *http.Client
	limiter    *sanitize.RateLimiter
	now        func() time.Time
}

// Result is a successful verification.
type Result struct {
	Tier        entitlement.Tier
	ProductName string
	Email       string
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = constants.DefaultLicenseEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultLicenseHTTPTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = constants.DefaultLicenseAttempts
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = constants.DefaultLicenseWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		productID:  cfg.ProductID,
		httpClient: httpClient,
		limiter:    sanitize.NewRateLimiter(cfg.MaxAttempts, cfg.AttemptWindow),
		now:        cfg.Now,
	}
}

// Verify checks key against the licensing API.
//
// A rejected key returns ErrInvalidLicense. Any other failure (network,
// unexpected status, malformed body) is returned wrapped so callers can keep
// a previously cached tier.
func (c *Client) Verify(ctx context.Context, key string) (Result, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Result{}, fmt.Errorf("%w: empty key", ErrInvalidLicense)
	}

	now := c.now()
	if !c.limiter.Allow(now) {
		return Result{}, fmt.Errorf("%w: retry in %s", ErrRateLimited, c.limiter.RetryAfter(now).Round(time.Second))
	}

	form := url.Values{}
	form.Set("product_id", c.productID)
	form.Set("license_key", key)
	form.Set("increment_uses_count", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	parsed, parseErr := ParseResponse(body)

	// The API answers rejected keys with a 404 and success=false.
	if resp.StatusCode == http.StatusNotFound && parseErr == nil && !parsed.Success {
		logger.Warn("License key rejected", "status", resp.StatusCode, "message", parsed.Message)
		return Result{}, invalid(parsed.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("license API returned %s", resp.Status)
	}
	if parseErr != nil {
		return Result{}, fmt.Errorf("parse response: %w", parseErr)
	}
	if !parsed.Success {
		logger.Warn("License key rejected", "message", parsed.Message)
		return Result{}, invalid(parsed.Message)
	}

	tier := entitlement.DetectTier(parsed.Payload)
	logger.Debug("License verified", "tier", tier, "product", parsed.Payload.ProductName)
	return Result{
		Tier:        tier,
		ProductName: parsed.Payload.ProductName,
		Email:       parsed.Email,
	}, nil
}

func invalid(message string) error {
	if message == "" {
		return ErrInvalidLicense
	}
	return fmt.Errorf("%w: %s", ErrInvalidLicense, message)
}

// RemainingAttempts reports how many verifications are allowed right now.
func (c *Client) RemainingAttempts() int {
	return c.limiter.Remaining(c.now())
}
