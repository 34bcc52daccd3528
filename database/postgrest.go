package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/supabase-community/postgrest-go"
)

const maxErrorBodyBytes = 64 * 1024

// PostgRESTStore reads collections through the Supabase REST endpoint
type PostgRESTStore struct {
	restURL   string
	anonKey   string
	timeout   time.Duration
	transport *http.Transport
}

// NewPostgRESTStore creates a store for the project at supabaseURL.
// A zero timeout leaves requests bounded only by the caller's context.
func NewPostgRESTStore(supabaseURL, anonKey string, timeout time.Duration) (*PostgRESTStore, error) {
	if strings.TrimSpace(supabaseURL) == "" {
		return nil, errors.New("supabase URL cannot be empty")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, errors.New("supabase anon key cannot be empty")
	}

	baseURL, err := url.Parse(strings.TrimRight(supabaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}
	if baseURL.Scheme != "https" && baseURL.Scheme != "http" {
		return nil, fmt.Errorf("invalid supabase URL scheme %q", baseURL.Scheme)
	}
	baseURL.Path += "/rest/v1"

	return &PostgRESTStore{
		restURL:   baseURL.String(),
		anonKey:   anonKey,
		timeout:   timeout,
		transport: http.DefaultTransport.(*http.Transport).Clone(),
	}, nil
}

// FetchCollection issues GET /rest/v1/{source}?select=*&order=...
func (s *PostgRESTStore) FetchCollection(ctx context.Context, source string, order OrderSpec, dest any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// postgrest-go builds requests without a context and reports errors as
	// "(code) message", so each call gets its own client over a transport
	// that carries ctx and keeps the error body.
	rt := &requestTransport{ctx: ctx, base: s.transport}
	client := s.newClient(rt)

	query := client.From(source).Select("*", "", false)
	for _, term := range order {
		query = query.Order(term.Field, orderOpts(term))
	}

	if _, err := query.ExecuteTo(dest); err != nil {
		return rt.failure(source, err)
	}
	return nil
}

// SortsRows reports that PostgREST applies the order server side
func (s *PostgRESTStore) SortsRows() bool {
	return true
}

// Close releases idle connections
func (s *PostgRESTStore) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

func (s *PostgRESTStore) newClient(rt http.RoundTripper) *postgrest.Client {
	client := postgrest.NewClient(s.restURL, "public", nil).
		SetApiKey(s.anonKey).
		SetAuthToken(s.anonKey)
	client.Transport.Parent = rt
	return client
}

// orderOpts keeps Postgres' default NULL placement: last when ascending,
// first when descending.
func orderOpts(term OrderTerm) *postgrest.OrderOpts {
	return &postgrest.OrderOpts{
		Ascending:  term.Direction == Ascending,
		NullsFirst: term.Direction == Descending,
	}
}

// requestTransport attaches the caller's context to every request and
// remembers the response status, and the body of an error response.
type requestTransport struct {
	ctx  context.Context
	base http.RoundTripper

	mu        sync.Mutex
	status    int
	errorBody []byte
}

func (t *requestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusBadRequest {
		t.mu.Lock()
		t.status = resp.StatusCode
		t.mu.Unlock()
		return resp, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	t.mu.Lock()
	t.status = resp.StatusCode
	if readErr == nil {
		t.errorBody = body
	}
	t.mu.Unlock()
	return resp, nil
}

// failure maps a postgrest-go error into a Failure, using the error
// response when one was received.
func (t *requestTransport) failure(source string, err error) *Failure {
	t.mu.Lock()
	status, body := t.status, t.errorBody
	t.mu.Unlock()

	if status == 0 {
		if ctxErr := t.ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return &Failure{Source: source, Message: err.Error(), Err: err}
	}
	if status < http.StatusBadRequest {
		return &Failure{Source: source, Status: status, Message: "decode response: " + err.Error(), Err: err}
	}

	failure := &Failure{Source: source, Status: status, Err: err}
	if len(body) > 0 {
		var apiErr postgrest.ExecuteError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			failure.Code = apiErr.Code
			failure.Message = apiErr.Message
			failure.Details = apiErr.Details
			failure.Hint = apiErr.Hint
			return failure
		}
		failure.Message = strings.TrimSpace(string(body))
	}
	if failure.Message == "" {
		failure.Message = http.StatusText(status)
	}
	return failure
}
