// Package dataset downloads the seed transaction payload.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"txboard/internal/core"
)

// DefaultURL is the public product transaction dataset.
const DefaultURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

const defaultMaxContentSize = 16 << 20

var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves and decodes the dataset.
type Fetcher struct {
	client         *http.Client
	url            string
	userAgent      string
	maxContentSize int64
}

// NewFetcher creates a fetcher for url with an overall request timeout.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          2,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Fetcher{
		client:         &http.Client{Transport: transport, Timeout: timeout},
		url:            url,
		userAgent:      "txboard/1.0",
		maxContentSize: defaultMaxContentSize,
	}
}

// URL returns the dataset location.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the payload and decodes every element.
func (f *Fetcher) Fetch(ctx context.Context) ([]core.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize)
	}

	return Decode(body)
}

// record is the wire shape of one dataset element. Fields outside the
// transaction model (id, image) are ignored.
type record struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	DateOfSale  string  `json:"dateOfSale"`
	Sold        bool    `json:"sold"`
	Category    string  `json:"category"`
}

// Decode parses a JSON array of dataset elements.
func Decode(body []byte) ([]core.Transaction, error) {
	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	out := make([]core.Transaction, len(records))
	for i, r := range records {
		ts, err := ParseTimestamp(r.DateOfSale)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = core.Transaction{
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			DateOfSale:  ts,
			Sold:        r.Sold,
			Category:    r.Category,
		}
	}
	return out, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 timestamps and bare dates (read as UTC)
// and returns the instant in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid dateOfSale %q", s)
}
