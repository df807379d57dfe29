package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskman/internal/models"
	"taskman/internal/session"
	"taskman/pkg/apperrors"
	"taskman/pkg/logger"

	"go.uber.org/zap"
)

// Client is a typed client for the task API, bound to one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	onUnauth func()
}

func NewClient(baseURL string, sess *session.Store, timeout time.Duration) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	c.httpClient = &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:    http.DefaultTransport,
			session: sess,
			client:  c,
		},
	}
	return c
}

// OnUnauthorized registers the callback fired after a 401 has cleared the
// session, so the UI can route back to login no matter which call failed.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauth = fn
	c.mu.Unlock()
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauth
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &resp)
	return resp, err
}

func (c *Client) ListTasks(ctx context.Context, req models.PageRequest) (models.TaskPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("size", strconv.Itoa(req.Size))
	if req.Sort != nil {
		query.Set("sort", req.Sort.Param())
	}

	var page models.TaskPage
	err := c.doJSON(ctx, http.MethodGet, "/tasks", query, nil, &page)
	return page, err
}

func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.doJSON(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &task)
	return task, err
}

func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task
	err := c.doJSON(ctx, http.MethodPost, "/tasks", nil, task, &created)
	return created, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	var updated models.Task
	err := c.doJSON(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), nil, task, &updated)
	return updated, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// doJSON membuat request, mengirim, dan mendekode respons JSON.
// Respons non-2xx didekode menjadi apperrors.APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ErrorLogger.Error("Request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
		)
		return &apperrors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	logger.RequestLogger.Info("API request",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apperrors.APIError{HTTPStatus: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			// Body tidak berbentuk error terstruktur, pakai status HTTP.
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}
	return nil
}
