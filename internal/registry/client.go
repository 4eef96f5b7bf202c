package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GNS-Foundation/gns-go/pkg/models"
)

// Client talks to the external handle registry. The registry owns handle
// uniqueness and persistence; this client only submits signed claim objects
// and reads resolution results, it never interprets them.

var (
	ErrNotConfigured    = errors.New("registry is not configured")
	ErrHandleTaken      = errors.New("handle is already claimed")
	ErrHandleNotFound   = errors.New("handle not found")
	ErrRegistryRejected = errors.New("registry rejected the request")
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Claim submits a signed handle claim. HTTP 409 means another identity holds
// the handle.
func (c *Client) Claim(ctx context.Context, claim models.HandleClaim) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(claim)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/handles/claim", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return ErrHandleTaken
	default:
		return fmt.Errorf("%w: status %d", ErrRegistryRejected, resp.StatusCode)
	}
}

// Resolve looks up a handle and returns the bound identity keys.
func (c *Client) Resolve(ctx context.Context, handle string) (models.ResolvedHandle, error) {
	if c == nil || c.baseURL == "" {
		return models.ResolvedHandle{}, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/handles/"+url.PathEscape(handle), nil)
	if err != nil {
		return models.ResolvedHandle{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return models.ResolvedHandle{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ResolvedHandle{}, ErrHandleNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.ResolvedHandle{}, fmt.Errorf("%w: status %d", ErrRegistryRejected, resp.StatusCode)
	}

	var resolved models.ResolvedHandle
	if err := json.NewDecoder(resp.Body).Decode(&resolved); err != nil {
		return models.ResolvedHandle{}, err
	}
	return resolved, nil
}
