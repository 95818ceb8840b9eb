// Package gateway is a client for the campus events REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"
)

// TransportError is a network failure or an unexpected server response.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchRequest(ctx context.Context, id string) (*model.EventRequest, error) {
	var rec model.EventRequest
	if err := c.do(ctx, "fetch request", http.MethodGet, "/api/v1/requests/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) MarkRemarkNotified(ctx context.Context, id string) error {
	return c.do(ctx, "mark remark notified", http.MethodPost, "/api/v1/requests/"+url.PathEscape(id)+"/remark/seen", nil, nil)
}

func (c *Client) ListPublicEvents(ctx context.Context) ([]model.EventRequest, error) {
	var events []model.EventRequest
	if err := c.do(ctx, "list public events", http.MethodGet, "/api/v1/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&envelope); err != nil && err != io.EOF {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, lifecycle.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return &lifecycle.ValidationError{Reason: envelope.Message}
	case resp.StatusCode == http.StatusUnauthorized:
		return &lifecycle.GuardError{Action: op, Kind: lifecycle.GuardRole, Reason: envelope.Message}
	case resp.StatusCode == http.StatusForbidden:
		return &lifecycle.GuardError{Action: op, Kind: lifecycle.GuardOwnership, Reason: envelope.Message}
	case resp.StatusCode == http.StatusConflict:
		return &lifecycle.GuardError{Action: op, Kind: lifecycle.GuardState, Reason: envelope.Message}
	case resp.StatusCode >= 300:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(envelope.Message)}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
