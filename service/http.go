package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"golang.org/x/oauth2"
)

// Session is the transport used to query a catalogue.
// It can be shared between queries.
type Session struct {
	client   *http.Client
	authName string
	authPswd string
}

// SessionOption configures a Session
type SessionOption func(s *Session)

// WithBasicAuth authenticates every request with the given credentials
func WithBasicAuth(user, pword string) SessionOption {
	return func(s *Session) {
		s.authName, s.authPswd = user, pword
	}
}

// WithBearerToken authenticates every request with a static oauth2 access token
func WithBearerToken(token string) SessionOption {
	return func(s *Session) {
		if token == "" {
			return
		}
		s.client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   s.client.Transport,
		}
	}
}

// WithTimeout sets the timeout of each request
func WithTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) {
		s.client.Timeout = timeout
	}
}

// NewSession creates a new Session
func NewSession(opts ...SessionOption) *Session {
	s := &Session{client: &http.Client{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get executes a GET request on url (with params appended to its query string, if any)
// and returns the body of the response.
// Raise BadResponseError if the status is not 2xx
func (s *Session) Get(ctx context.Context, url string, params neturl.Values) ([]byte, error) {
	if len(params) > 0 {
		sep := "?"
		if u, err := neturl.Parse(url); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		url += sep + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("Get.NewRequest: %w", err)
	}
	if s.authName != "" {
		req.SetBasicAuth(s.authName, s.authPswd)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Get.ReadAll: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BadResponseError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
