// Package directory resolves staff identifiers against the external
// directory service.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/aura-events/backend/config"
)

var (
	// ErrNotFound means the directory has no entry for the userid.
	ErrNotFound = errors.New("user not found in directory")
	// ErrUnavailable means the directory could not be reached in time.
	// Regular registrations must not proceed on this error.
	ErrUnavailable = errors.New("directory service unavailable")
)

// Person is a resolved directory entry.
type Person struct {
	UserID     string `json:"userid"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// Client calls the external directory over HTTP with a shared bearer token.
// Every call is bounded by the configured timeout.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a directory client from config.
func NewClient(cfg config.DirectoryConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Lookup resolves a userid to name/department/position. Returns ErrNotFound
// for unknown users and ErrUnavailable on timeout or connection failure.
func (c *Client) Lookup(ctx context.Context, userid string) (*Person, error) {
	if c.baseURL == "" {
		return nil, ErrUnavailable
	}
	u := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(userid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("directory lookup failed", zap.String("userid", userid), zap.Error(err))
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("directory lookup bad status", zap.String("userid", userid), zap.Int("status", resp.StatusCode))
		return nil, ErrUnavailable
	}

	var p Person
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if p.UserID == "" {
		p.UserID = userid
	}
	return &p, nil
}
