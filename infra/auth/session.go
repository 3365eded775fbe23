package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/CrestNiraj12/skyterm/domain"
)

// Session is an authenticated AT Protocol session created from a handle and
// an app password. It is safe for concurrent use.
type Session struct {
	pds        string
	identifier string
	password   string
	http       *http.Client

	mu         sync.Mutex
	accessJwt  string
	refreshJwt string
	did        string
	handle     string
}

// NewSession prepares a session against the given PDS. Call Login before use.
func NewSession(pds, identifier, password string) *Session {
	return &Session{
		pds:        strings.TrimRight(pds, "/"),
		identifier: strings.TrimPrefix(strings.TrimSpace(identifier), "@"),
		password:   password,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type sessionResponse struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	DID        string `json:"did"`
	Handle     string `json:"handle"`
}

// Login creates a new session with the configured credentials.
func (s *Session) Login(ctx context.Context) error {
	body := map[string]string{
		"identifier": s.identifier,
		"password":   s.password,
	}
	var resp sessionResponse
	if err := s.post(ctx, "/xrpc/com.atproto.server.createSession", "", body, &resp); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	s.store(resp)
	return nil
}

// Refresh renews the access token with the refresh token, logging in again
// if the refresh token itself has expired.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshJwt
	s.mu.Unlock()

	if refresh != "" {
		var resp sessionResponse
		err := s.post(ctx, "/xrpc/com.atproto.server.refreshSession", refresh, nil, &resp)
		if err == nil {
			s.store(resp)
			return nil
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("refresh session: %w", err)
		}
	}
	return s.Login(ctx)
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessJwt == "" {
		return "", fmt.Errorf("%w: not logged in", domain.ErrUnauthorized)
	}
	return s.accessJwt, nil
}

// DID returns the authenticated account's DID. Only valid after Login.
func (s *Session) DID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.did
}

// Handle returns the authenticated account's handle. Only valid after Login.
func (s *Session) Handle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Session) store(resp sessionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessJwt = resp.AccessJwt
	s.refreshJwt = resp.RefreshJwt
	if resp.DID != "" {
		s.did = resp.DID
	}
	if resp.Handle != "" {
		s.handle = resp.Handle
	}
}

func (s *Session) post(ctx context.Context, path, bearer string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pds+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || isAuthFailure(resp.StatusCode, data) {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, strings.TrimSpace(string(data)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// isAuthFailure recognises XRPC auth errors the PDS reports as 400.
func isAuthFailure(status int, data []byte) bool {
	if status != http.StatusBadRequest {
		return false
	}
	var xe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &xe) != nil {
		return false
	}
	switch xe.Error {
	case "ExpiredToken", "InvalidToken", "AuthenticationRequired":
		return true
	}
	return false
}
