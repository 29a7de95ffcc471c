// Package client talks to a running scheduler API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. http://localhost:9095.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scheduler api: %d: %s", e.StatusCode, e.Message)
}

// Schedule runs one policy ("fcfs", "sjf" or "rr") on the server.
func (c *Client) Schedule(ctx context.Context, policy string, req requests.ScheduleRequests) (responses.ScheduleResponse, error) {
	var out responses.ScheduleResponse
	err := c.post(ctx, "/api/v1/"+policy, req, &out)
	return out, err
}

// Compare runs every policy on the server over the same jobs.
func (c *Client) Compare(ctx context.Context, req requests.ScheduleRequests) (responses.CompareResponse, error) {
	var out responses.CompareResponse
	err := c.post(ctx, "/api/v1/all", req, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return json.Unmarshal(data, out)
}
