// Package client is the Go client for the task manager API: a typed
// HTTP wrapper plus a local task store that mirrors the server and
// recomputes the filtered/sorted view on every change.
package client

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

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/dto"
)

// ErrUnauthorized is returned on any 401 response. Callers should
// discard their stored token and re-authenticate.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response decoded from the {"error": msg} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the API, attaching the bearer token once set.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for baseURL (e.g. "http://localhost:5000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the session token for subsequent requests.
// Setting "" is the client-local logout.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Signup registers an account and installs the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	req := dto.SignupRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return dto.AuthResponse{}, err
	}
	c.token = out.Token
	return out, nil
}

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return dto.AuthResponse{}, err
	}
	c.token = out.Token
	return out, nil
}

// Logout notifies the server (a no-op there) and drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Profile fetches the current user with settings.
func (c *Client) Profile(ctx context.Context) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out)
	return out, err
}

// UpdateSettings sends a partial settings update.
func (c *Client) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (dto.SettingsResponse, error) {
	var out dto.SettingsResponse
	err := c.do(ctx, http.MethodPut, "/api/auth/settings", req, &out)
	return out, err
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := dto.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.do(ctx, http.MethodPut, "/api/auth/change-password", req, nil)
}

// ListTasks fetches tasks, optionally server-filtered and sorted.
func (c *Client) ListTasks(ctx context.Context, status dom.StatusFilter, sort dom.SortKey) ([]dto.TaskResponse, error) {
	q := url.Values{}
	if status != dom.StatusAll {
		q.Set("status", string(status))
	}
	if sort != dom.SortCreatedAt {
		q.Set("sortBy", string(sort))
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []dto.TaskResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// GetTask fetches one task by id.
func (c *Client) GetTask(ctx context.Context, id int64) (dto.TaskResponse, error) {
	var out dto.TaskResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &out)
	return out, err
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	var out dto.TaskResponse
	err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out)
	return out, err
}

// UpdateTask sends a partial update and returns the stored record.
func (c *Client) UpdateTask(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error) {
	var out dto.TaskResponse
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), req, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}
