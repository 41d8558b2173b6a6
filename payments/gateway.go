package payments

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	GatewayBkash      = "bkash"
	GatewaySSLCommerz = "sslcommerz"
)

type Session struct {
	SessionID   string
	RedirectURL string
}

// VerifyResult is what a provider's verification endpoint reported.
// Reference is the merchant reference the payment was opened with, when
// the provider echoes it back. Final reports whether Status is terminal
// at the provider; a non-final status may still become paid later.
type VerifyResult struct {
	ExternalID string
	Reference  string
	Amount     float64
	Status     string
	Paid       bool
	Final      bool
}

// Gateway is one interchangeable payment provider. Cash settles locally
// and never goes through here.
type Gateway interface {
	Name() string
	CreateSession(amount float64, reference, callbackURL string) (*Session, error)
	Verify(externalID string) (*VerifyResult, error)
}

// RateLimitError carries a provider's retry-after hint upward.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("gateway rate limited, retry after %s", e.RetryAfter)
}

func ByName(name string) (Gateway, error) {
	switch name {
	case GatewayBkash:
		return NewBkashGateway(), nil
	case GatewaySSLCommerz:
		return NewSSLCommerzGateway(), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", name)
	}
}

// httpClient is shared by both providers; no gateway call may hang past
// its deadline.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// rateLimited turns a 429/503 response into a RateLimitError when the
// provider sent a Retry-After header.
func rateLimited(resp *http.Response) error {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return nil
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return nil
	}
	return &RateLimitError{RetryAfter: time.Duration(seconds) * time.Second}
}
