package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
)

// Session is an authenticated handle on the service. It owns the token pair
// and refreshes it transparently: a request that comes back 401 triggers
// exactly one refresh-and-retry; a second 401 surfaces as ErrSessionExpired.
type Session struct {
	client *Client

	// gen counts pair rotations. Refresh samples it before taking the
	// mutex; a caller that blocked behind another refresh sees the bump
	// and adopts that result instead of replaying the spent token.
	gen atomic.Uint64

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         *User
}

func newSession(client *Client, resp *LoginResponse) *Session {
	u := resp.User
	return &Session{
		client:       client,
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		user:         &u,
	}
}

// User returns the principal from the last login or refresh, nil for a
// resumed session that has not refreshed yet.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Tokens returns the current pair for persistence across restarts.
func (s *Session) Tokens() (accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// Do sends an authenticated request to the service. The path is joined to
// the client's base URL. On a 401 the session refreshes once and retries;
// if the retry is also rejected the session is expired.
//
// The caller owns the response body.
func (s *Session) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	if token == "" {
		// Resumed session without an access token: refresh eagerly.
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		s.mu.Lock()
		token = s.accessToken
		s.mu.Unlock()
	}

	resp, err := s.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// One refresh, one retry.
	_ = resp.Body.Close()
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	token = s.accessToken
	s.mu.Unlock()

	resp, err = s.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// Refresh rotates the token pair. The server revokes the old refresh token
// on rotation, so concurrent refreshes must not race each other: the round
// trip happens while holding the session mutex, and a caller that waited
// out another refresh adopts its result rather than replaying a token that
// rotation has already spent.
func (s *Session) Refresh(ctx context.Context) error {
	observed := s.gen.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != observed {
		// Another caller rotated the pair while this one waited.
		if s.refreshToken == "" {
			return ErrSessionExpired
		}
		return nil
	}
	return s.refreshLocked(ctx)
}

// refreshLocked performs the rotation round trip. Callers hold s.mu.
func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return ErrSessionExpired
	}

	var resp LoginResponse
	err := s.client.postJSON(ctx, "/auth/refresh", "",
		RefreshRequest{RefreshToken: s.refreshToken}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			// The pair is dead; drop it so the next call fails fast
			// instead of replaying a spent token.
			s.accessToken = ""
			s.refreshToken = ""
			s.user = nil
			s.gen.Add(1)
			return fmt.Errorf("%w: %s", ErrAuthenticationFailed, apiErr.Message)
		}
		return err
	}

	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	u := resp.User
	s.user = &u
	s.gen.Add(1)
	return nil
}

// CheckSession asks the service whether the current access token is still
// valid, without refreshing.
func (s *Session) CheckSession(ctx context.Context) (*SessionResponse, error) {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	var resp SessionResponse
	err := s.client.getJSON(ctx, "/auth/check-session", token, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return &SessionResponse{Authenticated: false}, nil
		}
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the refresh token and clears the session. The local state
// is cleared even if the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	if refreshToken == "" {
		return nil
	}
	return s.client.postJSON(ctx, "/auth/logout", "",
		RefreshRequest{RefreshToken: refreshToken}, nil)
}

func (s *Session) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.client.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return s.client.httpClient.Do(req)
}
