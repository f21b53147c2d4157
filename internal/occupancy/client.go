package occupancy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smartcampus/internal/entities"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "smartcampus-parking/1.0"
	maxBodyBytes     = 4 << 20
)

// Client reads zone occupancy from an upstream HTTP source.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Now       func() time.Time
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
		Now:       time.Now,
	}
}

// FetchZones GETs url and normalizes the body, which may hold a single zone
// object or an array of them. Cancelling ctx aborts the request.
func (c *Client) FetchZones(ctx context.Context, url string) ([]entities.ZoneOccupancy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("occupancy request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read occupancy body: %w", err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return DecodeZones(body, now())
}
