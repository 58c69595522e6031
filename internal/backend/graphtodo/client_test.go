package graphtodo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mstodo/internal/service"
)

type staticTokens struct {
	calls int
	err   error
}

func (s *staticTokens) GetToken(ctx context.Context) (service.AccessToken, error) {
	s.calls++
	if s.err != nil {
		return service.AccessToken{}, s.err
	}
	return service.AccessToken{Value: "test-token", ObtainedFrom: service.TokenFromRefresh}, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *staticTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &staticTokens{}
	return NewWithBaseURL(tokens, srv.URL, nil), tokens
}

func TestFetchTaskLists(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/todo/lists", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"value":[
			{"id":"l1","displayName":"Aufgaben","wellknownListName":"defaultList"},
			{"id":"l2","displayName":"Groceries","wellknownListName":"none"}
		]}`)
	})

	lists, err := client.FetchTaskLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	// The well-known default list gets the fixed title regardless of locale.
	assert.Equal(t, service.TaskList{ID: "l1", Title: "Tasks"}, lists[0])
	assert.Equal(t, service.TaskList{ID: "l2", Title: "Groceries"}, lists[1])
	assert.Equal(t, 1, tokens.calls)
}

func TestFetchTaskLists_FollowsNextLink(t *testing.T) {
	var srvURL string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value":[{"id":"l2","displayName":"B"}]}`)
			return
		}
		fmt.Fprintf(w, `{"value":[{"id":"l1","displayName":"A"}],"@odata.nextLink":%q}`,
			srvURL+"/me/todo/lists?page=2")
	})
	srvURL = client.baseURL

	lists, err := client.FetchTaskLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "l2", lists[1].ID)
}

func TestFetchTasks_CollapsesDuplicateTitles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/todo/lists/l1/tasks", r.URL.Path)
		assert.Equal(t, `outlook.timezone="Asia/Shanghai"`, r.Header.Get("Prefer"))
		fmt.Fprint(w, `{"value":[
			{"id":"t1","title":"  Buy milk ","status":"notStarted"},
			{"id":"t2","title":"Call mom","status":"inProgress"},
			{"id":"t3","title":"Buy milk","status":"completed"}
		]}`)
	})

	tasks, err := client.FetchTasks(context.Background(), "l1")
	require.NoError(t, err)
	// Three returned items, two distinct trimmed titles.
	assert.Equal(t, 2, tasks.Len())
	assert.Equal(t, []string{"Buy milk", "Call mom"}, tasks.Titles())

	// Duplicate collapsed to the last occurrence.
	milk, ok := tasks.Get("Buy milk")
	require.True(t, ok)
	assert.Equal(t, "t3", milk.ID)
	assert.Equal(t, service.StatusCompleted, milk.Status)

	// Unknown wire statuses collapse to not started.
	call, ok := tasks.Get("Call mom")
	require.True(t, ok)
	assert.Equal(t, service.StatusNotStarted, call.Status)
}

func TestFetchTasks_RemoteErrorKeepsStatusAndBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":"Forbidden","message":"nope"}}`)
	})

	_, err := client.FetchTasks(context.Background(), "l1")
	var remoteErr *service.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.Status)
	assert.Equal(t, `{"error":{"code":"Forbidden","message":"nope"}}`, remoteErr.Body)
}

func TestCreateTask_SendsDueDateWithFixedZone(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusCreated)
	})

	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	err := client.CreateTask(context.Background(), "l1", service.TaskDraft{Title: "X", Due: &due})
	require.NoError(t, err)

	assert.Equal(t, "X", body["title"])
	dueBody := body["dueDateTime"].(map[string]any)
	assert.Equal(t, "Asia/Shanghai", dueBody["timeZone"])
	assert.Equal(t, "2026-03-14T00:00:00.0000000", dueBody["dateTime"])
	_, hasStatus := body["status"]
	assert.False(t, hasStatus, "status omitted unless the draft sets one")
}

func TestCreateTask_WithStatus(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.CreateTask(context.Background(), "l1",
		service.TaskDraft{Title: "B", Status: service.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "completed", body["status"])
}

func TestCreateTask_Non201IsRemoteError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // not 201
		fmt.Fprint(w, "unexpected")
	})

	err := client.CreateTask(context.Background(), "l1", service.TaskDraft{Title: "X"})
	var remoteErr *service.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusOK, remoteErr.Status)
	assert.Equal(t, "unexpected", remoteErr.Body)
}

func TestUpdateTask_OnlySuppliedFieldsInPatch(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/me/todo/lists/l1/tasks/t1", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
	})

	status := service.StatusCompleted
	err := client.UpdateTask(context.Background(), "l1", "t1", service.TaskPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"status": "completed"}, body)
}

func TestDeleteTask_Expects204(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, client.DeleteTask(context.Background(), "l1", "t1"))
}

func TestRenameList(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/me/todo/lists/l1", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
	})

	require.NoError(t, client.RenameList(context.Background(), "l1", "Renamed"))
	assert.Equal(t, "Renamed", body["displayName"])
}

func TestTokenFailureShortCircuits(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the token source fails")
	})
	tokens.err = service.ErrNoTokenCache

	_, err := client.FetchTasks(context.Background(), "l1")
	require.ErrorIs(t, err, service.ErrNoTokenCache)
}
