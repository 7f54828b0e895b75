// Package client is a typed HTTP client for the time table endpoints, shared
// by the admin editor and the public viewer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clinicsite/models"
)

// TimetableAPI is what the editor and viewer need from the server.
type TimetableAPI interface {
	FetchTimetable(ctx context.Context) (*models.TimetableResponse, error)
	ReplaceTimetable(ctx context.Context, schedule []models.DaySchedule, expectedVersion *int64) (*models.ReplaceTimetableResponse, error)
}

// APIError is a non-2xx response. It unwraps to the matching models sentinel
// when the server sent a known code.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("time table api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("time table api: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if err := models.ErrorForCode(e.Code); err != nil {
		return err
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return models.ErrTimetableNotFound
	case http.StatusConflict:
		return models.ErrVersionConflict
	}
	if e.StatusCode >= 500 {
		return models.ErrStoreUnavailable
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

// WithHTTPClient overrides the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBearerToken attaches an admin token to writes.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchTimetable(ctx context.Context) (*models.TimetableResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/time-table", nil)
	if err != nil {
		return nil, err
	}
	var out models.TimetableResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplaceTimetable sends the whole schedule. A non-nil expectedVersion is sent
// as If-Match so a concurrent edit is reported instead of overwritten.
func (c *Client) ReplaceTimetable(ctx context.Context, schedule []models.DaySchedule, expectedVersion *int64) (*models.ReplaceTimetableResponse, error) {
	if schedule == nil {
		schedule = []models.DaySchedule{}
	}
	body, err := json.Marshal(map[string]any{"schedule": schedule})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/time-table", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if expectedVersion != nil {
		req.Header.Set("If-Match", strconv.Quote(strconv.FormatInt(*expectedVersion, 10)))
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var out models.ReplaceTimetableResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("time table api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("time table api: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Code = body.Code
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("time table api: decode response: %w", err)
	}
	return nil
}
