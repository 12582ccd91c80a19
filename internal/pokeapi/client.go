package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Operation names reported to observers.
const (
	OpList   = "LIST"
	OpDetail = "DETAIL"
	OpSprite = "SPRITE"
)

// maxImageBytes caps sprite downloads; official artwork is well under this.
const maxImageBytes = 8 << 20

// ErrNetwork matches every NetworkError via errors.Is.
var ErrNetwork = errors.New("network error")

// NetworkError is the single failure kind for upstream calls: connectivity
// failures, non-200 responses and undecodable payloads all surface as one.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", strings.ToLower(e.Op), e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", strings.ToLower(e.Op), e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNetwork) true for any NetworkError.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPStatus returns the response code, or 0 when no response was read.
func (e *NetworkError) HTTPStatus() int { return e.StatusCode }

// Observer receives one callback per upstream request.
type Observer interface {
	ObserveFetch(op, url string, status int, rtt time.Duration, err error)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Observers  []Observer
}

// Client is a read-only client for the catalog API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	observers  []Observer
}

// NewClient builds a Client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "dexterm"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		observers:  cfg.Observers,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListPokemon fetches the first page of references, limited to limit entries.
func (c *Client) ListPokemon(ctx context.Context, limit int) (ListResponse, error) {
	u := c.baseURL + "/pokemon/?limit=" + strconv.Itoa(limit)
	var out ListResponse
	if err := c.getJSON(ctx, OpList, u, &out); err != nil {
		return ListResponse{}, err
	}
	return out, nil
}

// GetPokemon fetches the detail resource for a national number.
func (c *Client) GetPokemon(ctx context.Context, id int) (Pokemon, error) {
	return c.GetPokemonURL(ctx, c.baseURL+"/pokemon/"+strconv.Itoa(id))
}

// GetPokemonByName fetches the detail resource for a lowercase name.
func (c *Client) GetPokemonByName(ctx context.Context, name string) (Pokemon, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	return c.GetPokemonURL(ctx, c.baseURL+"/pokemon/"+url.PathEscape(name))
}

// GetPokemonURL fetches a detail resource by the URL a listing returned.
func (c *Client) GetPokemonURL(ctx context.Context, detailURL string) (Pokemon, error) {
	var out Pokemon
	if err := c.getJSON(ctx, OpDetail, detailURL, &out); err != nil {
		return Pokemon{}, err
	}
	return out, nil
}

// FetchImage downloads a sprite.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	var data []byte
	err := c.do(ctx, OpSprite, imageURL, func(body io.Reader) error {
		b, err := io.ReadAll(io.LimitReader(body, maxImageBytes))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, op, u string, v any) error {
	return c.do(ctx, op, u, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, op, u string, read func(io.Reader) error) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		for _, o := range c.observers {
			o.ObserveFetch(op, u, status, time.Since(start), err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &NetworkError{Op: op, URL: u, StatusCode: resp.StatusCode}
	}
	if err := read(resp.Body); err != nil {
		return &NetworkError{Op: op, URL: u, Err: err}
	}
	return nil
}
