// Package tmdb provides a minimal client for The Movie Database API.
package tmdb

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

// Result represents a single TMDB search match.
type Result struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is one TMDB genre tag.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is one credited actor.
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is one credited crew role.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Movie is the TMDB movie details payload with credits appended.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []Genre `json:"genres"`
	Credits     struct {
		Cast []CastMember `json:"cast"`
		Crew []CrewMember `json:"crew"`
	} `json:"credits"`
}

// Director returns the first credited director, if any.
func (m *Movie) Director() string {
	for _, member := range m.Credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// TopCast returns up to n billed cast names in billing order.
func (m *Movie) TopCast(n int) []string {
	names := make([]string, 0, n)
	for _, member := range m.Credits.Cast {
		if len(names) >= n {
			break
		}
		names = append(names, member.Name)
	}
	return names
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
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

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB for the supplied title. A positive year narrows
// the search to that release year.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search/movie")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	endpoint.RawQuery = params.Encode()

	var payload Response
	if err := c.get(ctx, endpoint.String(), "tmdb search", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovie fetches movie details by TMDB ID, credits included.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (*Movie, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	endpoint, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.baseURL, movieID))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("append_to_response", "credits")
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	var payload Movie
	if err := c.get(ctx, endpoint.String(), "tmdb movie details", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, endpoint, label string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", label, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", label, err)
	}
	return nil
}
