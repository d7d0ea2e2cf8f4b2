package workorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the HTTP implementation of Store.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a work-order store client from configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.ApiKey,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// CreateJob creates a job and returns the remote id.
func (c *Client) CreateJob(ctx context.Context, job *Job) (string, error) {
	var created Job
	if err := c.do(ctx, http.MethodPost, "/jobs", job, &created); err != nil {
		return "", fmt.Errorf("workorder: create job for %s: %w", job.ReservationUID, err)
	}
	return created.ID, nil
}

// UpdateJob applies the non-nil fields of update.
func (c *Client) UpdateJob(ctx context.Context, id string, update JobUpdate) error {
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+id, update, nil); err != nil {
		return fmt.Errorf("workorder: update job %s: %w", id, err)
	}
	return nil
}

// DeleteJob cancels a job on the remote side.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/jobs/"+id, nil, nil); err != nil {
		return fmt.Errorf("workorder: delete job %s: %w", id, err)
	}
	return nil
}

// GetJob fetches the current remote state of a job.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+id, nil, &job); err != nil {
		return nil, fmt.Errorf("workorder: get job %s: %w", id, err)
	}
	return &job, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
