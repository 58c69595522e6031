// Package graphtodo implements the service.Service interface against
// the Microsoft Graph To Do REST endpoints.
package graphtodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mstodo/internal/service"
)

const (
	// DefaultBaseURL is the Graph v1.0 root.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// PreferTimeZone is the fixed zone sent on reads (Prefer header) and
	// on due dates.
	PreferTimeZone = "Asia/Shanghai"

	// defaultListTitle replaces the locale-dependent display name of the
	// well-known default list, so a stored selection survives locale
	// changes.
	defaultListTitle = "Tasks"

	apiTimeout = 10 * time.Second
)

// TokenSource supplies a fresh bearer token per call. Implemented by
// auth.Manager.
type TokenSource interface {
	GetToken(ctx context.Context) (service.AccessToken, error)
}

// Client is a stateless REST wrapper over the To Do endpoints. It holds
// no token; every call asks the token source.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	log     *zap.Logger
}

// New creates a Client against the public Graph endpoint.
func New(tokens TokenSource, log *zap.Logger) *Client {
	return NewWithBaseURL(tokens, DefaultBaseURL, log)
}

// NewWithBaseURL creates a Client against a custom base URL (for
// testing).
func NewWithBaseURL(tokens TokenSource, baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: apiTimeout},
		baseURL: baseURL,
		tokens:  tokens,
		log:     log,
	}
}

// FetchTaskLists returns all task lists in API order, following
// pagination links. The well-known default list is retitled to a fixed
// name.
func (c *Client) FetchTaskLists(ctx context.Context) ([]service.TaskList, error) {
	var result []service.TaskList
	next := c.baseURL + "/me/todo/lists"
	for next != "" {
		var page listCollection
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, l := range page.Value {
			title := l.DisplayName
			if l.WellknownListName == "defaultList" {
				title = defaultListTitle
			}
			result = append(result, service.TaskList{ID: l.ID, Title: title})
		}
		next = page.NextLink
	}
	return result, nil
}

// FetchTasks returns the list's tasks as a title-keyed TaskMap,
// following pagination links. Titles are trimmed; duplicates collapse
// to the last occurrence.
func (c *Client) FetchTasks(ctx context.Context, listID string) (*service.TaskMap, error) {
	tasks := service.NewTaskMap()
	next := fmt.Sprintf("%s/me/todo/lists/%s/tasks", c.baseURL, listID)
	for next != "" {
		var page taskCollection
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, t := range page.Value {
			tasks.Set(t.toItem())
		}
		next = page.NextLink
	}
	c.log.Debug("fetched tasks", zap.String("listId", listID), zap.Int("count", tasks.Len()))
	return tasks, nil
}

// CreateTask creates a new task. A due date is sent with the fixed
// timezone label; a status is sent only when the draft sets one.
func (c *Client) CreateTask(ctx context.Context, listID string, draft service.TaskDraft) error {
	body := taskResource{
		Title:  draft.Title,
		Status: draft.Status,
	}
	if draft.Due != nil {
		body.DueDateTime = newDateTimeTimeZone(*draft.Due)
	}
	url := fmt.Sprintf("%s/me/todo/lists/%s/tasks", c.baseURL, listID)
	return c.write(ctx, http.MethodPost, url, body, http.StatusCreated)
}

// UpdateTask patches a task; only supplied fields go into the body.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, patch service.TaskPatch) error {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Status != nil {
		body["status"] = *patch.Status
	}
	if patch.Due != nil {
		body["dueDateTime"] = newDateTimeTimeZone(*patch.Due)
	}
	url := fmt.Sprintf("%s/me/todo/lists/%s/tasks/%s", c.baseURL, listID, taskID)
	return c.write(ctx, http.MethodPatch, url, body, http.StatusOK)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	url := fmt.Sprintf("%s/me/todo/lists/%s/tasks/%s", c.baseURL, listID, taskID)
	return c.write(ctx, http.MethodDelete, url, nil, http.StatusNoContent)
}

// RenameList changes a list's display name.
func (c *Client) RenameList(ctx context.Context, listID, name string) error {
	url := fmt.Sprintf("%s/me/todo/lists/%s", c.baseURL, listID)
	return c.write(ctx, http.MethodPatch, url, listPatch{DisplayName: name}, http.StatusOK)
}

// get issues an authorized read and decodes the response. Reads carry
// the timezone preference header.
func (c *Client) get(ctx context.Context, url string, into any) error {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", fmt.Sprintf("outlook.timezone=%q", PreferTimeZone))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return remoteError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

// write issues an authorized mutation and checks for the expected
// status.
func (c *Client) write(ctx context.Context, method, url string, body any, wantStatus int) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, url, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return remoteError(resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.Value)
	return req, nil
}

// remoteError preserves the status and body text unmodified.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &service.RemoteError{Status: resp.StatusCode, Body: string(body)}
}
