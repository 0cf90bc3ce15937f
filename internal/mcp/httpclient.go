package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
	"resty.dev/v3"
)

// HTTPClient implements DataSource by calling the LiftLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	client *resty.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
// Server errors are retried up to three times.
func NewHTTPClient(baseURL string) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")
	return &HTTPClient{client: client}
}

// Close releases the underlying client.
func (c *HTTPClient) Close() error {
	return c.client.Close()
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode(), resp.Bytes())
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

// QuerySets ignores userID; the server resolves the caller from its tailnet identity.
func (c *HTTPClient) QuerySets(ctx context.Context, start, end time.Time, _ int, exercise string) ([]models.SetRow, error) {
	params := timeParams(start, end)
	if exercise != "" {
		params.Set("exercise", exercise)
	}

	var sets []models.SetRow
	if err := c.get(ctx, "/api/v1/sets", params, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, _ int) ([]storage.ExerciseCount, error) {
	var exercises []storage.ExerciseCount
	if err := c.get(ctx, "/api/v1/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, _ int) ([]storage.VolumePeriod, error) {
	params := timeParams(start, end)
	params.Set("bucket", bucket)

	var periods []storage.VolumePeriod
	if err := c.get(ctx, "/api/v1/volume", params, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (c *HTTPClient) GetIntensity(ctx context.Context, start, end time.Time, _ int) (*storage.IntensityResult, error) {
	var result storage.IntensityResult
	if err := c.get(ctx, "/api/v1/intensity", timeParams(start, end), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
