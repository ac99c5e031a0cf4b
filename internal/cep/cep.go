// Package cep resolves Brazilian postal codes (CEP) to street addresses
// through a ViaCEP-compatible JSON service.
//
// A lookup is a single attempt: there is no retry or backoff. Concurrent
// lookups of the same code share one request, and outbound requests are
// throttled by a token bucket.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidCEP means the code does not have exactly 8 digits.
	ErrInvalidCEP = errors.New("invalid cep")

	// ErrNotFound means the provider has no address for the code.
	ErrNotFound = errors.New("cep not found")

	// ErrUnavailable means the provider could not be reached or answered
	// with an unexpected status.
	ErrUnavailable = errors.New("cep service unavailable")
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br"

// Address is a resolved postal address.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento,omitempty"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"uf"`
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
}

// Client looks up addresses. It is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
}

// New creates a Client. Empty options fall back to DefaultBaseURL and a
// 5 second timeout.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Normalize strips punctuation and checks the code has 8 digits.
func Normalize(code string) (string, error) {
	var b strings.Builder
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidCEP, code)
		}
	}
	if b.Len() != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCEP, code)
	}
	return b.String(), nil
}

// Lookup resolves code to an address.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	normalized, err := Normalize(code)
	if err != nil {
		return Address{}, err
	}

	ch := c.group.DoChan(normalized, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), normalized)
	})

	select {
	case <-ctx.Done():
		return Address{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Address{}, res.Err
		}
		return res.Val.(Address), nil
	}
}

// viaCEPResponse is the provider payload. "erro" has been sent both as a
// boolean and as the string "true".
type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func (c *Client) fetch(ctx context.Context, code string) (Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidCEP, code)
	case resp.StatusCode == http.StatusNotFound:
		return Address{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	case resp.StatusCode != http.StatusOK:
		return Address{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if body.notFound() {
		return Address{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}

	return Address{
		CEP:          code,
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
