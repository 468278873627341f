package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/deskboard/internal/model"
)

// HTTPClient implements BoardClient using the deskboard HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      RetryConfig
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		retry:      DefaultRetryConfig(),
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Board ---

func (c *HTTPClient) GetBoard(ctx context.Context, actor string) (*BoardResponse, error) {
	q := url.Values{}
	q.Set("actor", actor)
	var resp BoardResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/board?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SetStatus(ctx context.Context, actor, workerID string, status model.Status) (*model.Worker, error) {
	body := map[string]string{
		"actor":  actor,
		"status": status.String(),
	}
	var worker model.Worker
	path := "/v1/workers/" + url.PathEscape(workerID) + "/status"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (c *HTTPClient) AdjustCounter(ctx context.Context, actor, workerID string, delta int) (*model.Worker, error) {
	body := map[string]any{
		"actor": actor,
		"delta": delta,
	}
	var worker model.Worker
	path := "/v1/workers/" + url.PathEscape(workerID) + "/counter"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

// --- Workers ---

func (c *HTTPClient) CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*model.Worker, error) {
	var worker model.Worker
	if err := c.doJSON(ctx, http.MethodPost, "/v1/workers", req, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (c *HTTPClient) GetWorker(ctx context.Context, actor, id string) (*BoardRow, error) {
	q := url.Values{}
	q.Set("actor", actor)
	var row BoardRow
	path := "/v1/workers/" + url.PathEscape(id) + "?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *HTTPClient) ListWorkers(ctx context.Context, actor string) ([]BoardRow, error) {
	q := url.Values{}
	q.Set("actor", actor)
	var resp struct {
		Workers []BoardRow `json:"workers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/workers?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workers, nil
}

func (c *HTTPClient) DeleteWorker(ctx context.Context, actor, id string) error {
	q := url.Values{}
	q.Set("actor", actor)
	path := "/v1/workers/" + url.PathEscape(id) + "?" + q.Encode()
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// --- Directory ---

func (c *HTTPClient) ListUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// --- Audit ---

func (c *HTTPClient) ListEvents(ctx context.Context, actor, workerID string, limit int) ([]*model.Event, error) {
	q := url.Values{}
	q.Set("actor", actor)
	if workerID != "" {
		q.Set("worker", workerID)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/v1/audit?" + q.Encode()
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body, retrying transient
// failures per the client's retry config, and decodes the JSON response.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	return withRetry(ctx, c.retry, func(ctx context.Context) error {
		return c.doJSONOnce(ctx, method, path, data, result)
	})
}

func (c *HTTPClient) doJSONOnce(ctx context.Context, method, path string, data []byte, result any) error {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
