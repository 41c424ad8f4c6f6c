package arweave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/permavault/permavault-daemon/pkg/circuitbreaker"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

const (
	// DefaultGatewayURL ...
	DefaultGatewayURL = "https://arweave.net"
	// DefaultRequestTimeout ...
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// ErrGatewayUnavailable ...
	ErrGatewayUnavailable = errors.New("arweave gateway unavailable")
	// ErrNotFound ...
	ErrNotFound = errors.New("arweave data not found")
	// ErrMalformedResponse ...
	ErrMalformedResponse = errors.New("malformed arweave gateway response")
	// ErrInvalidTxID ...
	ErrInvalidTxID = errors.New("invalid arweave transaction id")

	txIDRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)
)

type Config struct {
	GatewayURL     string
	RequestTimeout time.Duration
}

func (c *Config) validate() error {
	if c.GatewayURL == "" {
		c.GatewayURL = DefaultGatewayURL
	}
	if !strings.HasPrefix(c.GatewayURL, "http://") &&
		!strings.HasPrefix(c.GatewayURL, "https://") {
		return fmt.Errorf("gateway url must be http or https")
	}
	c.GatewayURL = strings.TrimSuffix(c.GatewayURL, "/")
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return nil
}

// Client is a read-only client of an Arweave HTTP gateway.
type Client struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		url:    cfg.GatewayURL,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cb:     circuitbreaker.NewCircuitBreaker("arweave", isSuccessful),
	}, nil
}

// GetBalance returns the balance of the address in winston.
func (c *Client) GetBalance(ctx context.Context, addr string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/wallet/%s/balance", addr))
	if err != nil {
		return "", err
	}
	return parseWinston(body)
}

// GetPrice returns the cost in winston of storing size bytes.
func (c *Client) GetPrice(ctx context.Context, size int64) (string, error) {
	if size < 0 {
		return "", fmt.Errorf("size must not be negative")
	}
	body, err := c.get(ctx, fmt.Sprintf("/price/%d", size))
	if err != nil {
		return "", err
	}
	return parseWinston(body)
}

// GetData returns the data of the given transaction.
func (c *Client) GetData(ctx context.Context, txid string) ([]byte, error) {
	if !IsValidTxID(txid) {
		return nil, ErrInvalidTxID
	}
	return c.get(ctx, "/"+txid)
}

func IsValidTxID(txid string) bool {
	return txIDRegexp.MatchString(txid)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf(
				"gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)),
			)
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, err)
	}
	return result.([]byte), nil
}

func parseWinston(body []byte) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(body)))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return "", ErrMalformedResponse
	}
	return d.String(), nil
}

func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound)
}
