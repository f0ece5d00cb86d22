// Package omdb provides a minimal client for the OMDB API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when OMDB has no record for the queried title.
var ErrNotFound = errors.New("omdb: title not found")

// Movie is the OMDB title payload. OMDB returns every field as a string,
// with "N/A" standing in for missing values.
type Movie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	IMDBRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// RuntimeMinutes parses the "142 min" runtime form; zero when absent.
func (m *Movie) RuntimeMinutes() int {
	fields := strings.Fields(m.Runtime)
	if len(fields) == 0 {
		return 0
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return minutes
}

// Field returns a payload string with OMDB's "N/A" placeholder stripped.
func Field(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

// Client provides access to the OMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an OMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetByTitle fetches a movie by exact title, optionally narrowed by year.
func (c *Client) GetByTitle(ctx context.Context, title string, year int) (*Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	params.Set("plot", "short")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned %d", resp.StatusCode)
	}

	var payload Movie
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	// OMDB signals lookup failures in the body, not the status code.
	if !strings.EqualFold(payload.Response, "True") {
		if strings.Contains(strings.ToLower(payload.Error), "not found") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("omdb error: %s", payload.Error)
	}
	return &payload, nil
}
