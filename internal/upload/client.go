package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"resty.dev/v3"
)

// pushRequest and pushResponse mirror the server's POST /api/v1/sets body
// without importing the server package (which would pull in pgx and other
// server-side dependencies).
type pushRequest struct {
	Sets []models.SetRow `json:"sets"`
}

type pushResponse struct {
	Received int         `json:"received"`
	Inserted int64       `json:"inserted"`
	IDs      []uuid.UUID `json:"ids"`
}

// Client sends sets to the LiftLog server over HTTP.
type Client struct {
	client *resty.Client
}

// NewClient creates a new HTTP client for the LiftLog server. Requests carry
// the API key and are retried up to 3 times on server errors. Retrying the
// POST is safe because the server skips set IDs it already holds.
func NewClient(serverURL, apiKey string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(serverURL, "/")).
		SetTimeout(60*time.Second).
		SetRetryCount(3).
		SetAllowNonIdempotentRetry(true).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("X-API-Key", apiKey)
	return &Client{client: client}
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

// PushSets POSTs sets to the server and returns how many it inserted.
// Sets the server already holds are accepted but not counted.
func (c *Client) PushSets(ctx context.Context, sets []models.SetRow) (int64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetContentType("application/json").
		SetBody(pushRequest{Sets: sets}).
		Post("/api/v1/sets")
	if err != nil {
		return 0, fmt.Errorf("pushing sets: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return 0, fmt.Errorf("push failed (status %d): %s", resp.StatusCode(), resp.Bytes())
	}

	var out pushResponse
	if err := json.Unmarshal(resp.Bytes(), &out); err != nil {
		return 0, fmt.Errorf("decoding push response: %w", err)
	}
	return out.Inserted, nil
}
