// Package client wraps the AgentFlow task API for external callers such
// as the Telegram bot. Every call returns a *StatusError on a non-2xx
// response; the API itself never depends on this package.
package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

type Task struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// StatusError carries the status code and the error message the API
// responded with.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api responded with %d: %s", e.Code, e.Message)
}

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	message := resp.Status()
	if apiErr, ok := resp.Error().(*errorResponse); ok && apiErr.Error != "" {
		message = apiErr.Error
	}
	return &StatusError{
		Code:    resp.StatusCode(),
		Message: message,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetError(new(errorResponse))
}

func (c *Client) Tasks(ctx context.Context, userID int64) ([]Task, error) {
	var tasks []Task
	resp, err := c.request(ctx).
		SetResult(&tasks).
		Get(fmt.Sprintf("/users/%d/tasks", userID))
	if err != nil {
		return nil, err
	}
	if err = statusError(resp); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) AddTask(ctx context.Context, userID int64, title string) (*Task, error) {
	task := new(Task)
	resp, err := c.request(ctx).
		SetBody(map[string]string{"title": title}).
		SetResult(task).
		Post(fmt.Sprintf("/users/%d/tasks", userID))
	if err != nil {
		return nil, err
	}
	if err = statusError(resp); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Client) UpdateTaskTitle(ctx context.Context, userID, taskID int64, title string) (*Task, error) {
	return c.patchTask(ctx, userID, taskID, map[string]string{"title": title})
}

func (c *Client) UpdateTaskStatus(ctx context.Context, userID, taskID int64, status string) (*Task, error) {
	return c.patchTask(ctx, userID, taskID, map[string]string{"status": status})
}

func (c *Client) patchTask(ctx context.Context, userID, taskID int64, body map[string]string) (*Task, error) {
	task := new(Task)
	resp, err := c.request(ctx).
		SetBody(body).
		SetResult(task).
		Patch(fmt.Sprintf("/users/%d/tasks/%d", userID, taskID))
	if err != nil {
		return nil, err
	}
	if err = statusError(resp); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Client) RemoveTask(ctx context.Context, userID, taskID int64) error {
	resp, err := c.request(ctx).
		Delete(fmt.Sprintf("/users/%d/tasks/%d", userID, taskID))
	if err != nil {
		return err
	}
	return statusError(resp)
}

// ClearTasks removes every task of the user and
// returns how many were deleted.
func (c *Client) ClearTasks(ctx context.Context, userID int64) (int64, error) {
	var result struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	resp, err := c.request(ctx).
		SetResult(&result).
		Delete(fmt.Sprintf("/users/%d/tasks", userID))
	if err != nil {
		return 0, err
	}
	if err = statusError(resp); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}
