package v1_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/agentflow/agentflow/internal/delivery/http/v1"
	"github.com/agentflow/agentflow/internal/repository/memory"
	"github.com/agentflow/agentflow/internal/services"
)

type taskBody struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	taskService := services.NewTaskService(zerolog.Nop(), memory.NewTaskRepository())
	v1.RegisterRoutes(router, v1.New(zerolog.Nop(), taskService))
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTask(t *testing.T, router *gin.Engine, userID int64, title string) taskBody {
	t.Helper()

	w := perform(t, router, http.MethodPost,
		fmt.Sprintf("/users/%d/tasks", userID),
		fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(t, http.StatusCreated, w.Code)

	var task taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func TestHandleRoot(t *testing.T) {
	router := newTestRouter()

	w := perform(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AgentFlow API")
}

func TestCreateAndReadTask(t *testing.T) {
	router := newTestRouter()

	created := createTask(t, router, 123, "Test Task 1")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Test Task 1", created.Title)
	assert.Equal(t, "new", created.Status)

	w := perform(t, router, http.MethodGet, "/users/123/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, "Test Task 1", tasks[0].Title)
}

func TestGetTasks_EmptyListIsArray(t *testing.T) {
	router := newTestRouter()

	w := perform(t, router, http.MethodGet, "/users/7/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateTask_InvalidBody(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty title", body: `{"title":""}`},
		{name: "title too long", body: fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 256))},
		{name: "malformed json", body: `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, router, http.MethodPost, "/users/1/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPathIDValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "zero user id", method: http.MethodGet, path: "/users/0/tasks"},
		{name: "negative user id", method: http.MethodGet, path: "/users/-1/tasks"},
		{name: "non-integer user id", method: http.MethodGet, path: "/users/abc/tasks"},
		{name: "zero user id on create", method: http.MethodPost, path: "/users/0/tasks"},
		{name: "non-integer task id", method: http.MethodDelete, path: "/users/1/tasks/abc"},
		{name: "zero task id", method: http.MethodDelete, path: "/users/1/tasks/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, router, tt.method, tt.path, `{"title":"x"}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "original")

	w := perform(t, router, http.MethodPatch,
		fmt.Sprintf("/users/1/tasks/%d", task.ID),
		`{"status":"done"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "original", updated.Title)
	assert.Equal(t, "done", updated.Status)

	w = perform(t, router, http.MethodPatch,
		fmt.Sprintf("/users/1/tasks/%d", task.ID),
		`{"title":"renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "done", updated.Status)
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "task")

	w := perform(t, router, http.MethodPatch,
		fmt.Sprintf("/users/1/tasks/%d", task.ID),
		`{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask_NoFields(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "task")

	w := perform(t, router, http.MethodPatch,
		fmt.Sprintf("/users/1/tasks/%d", task.ID),
		`{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask_NotOwned(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "mine")

	w := perform(t, router, http.MethodPatch,
		fmt.Sprintf("/users/2/tasks/%d", task.ID),
		`{"title":"stolen"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The task must be untouched.
	w = perform(t, router, http.MethodGet, "/users/1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func TestDeleteTask(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "to delete")

	w := perform(t, router, http.MethodDelete,
		fmt.Sprintf("/users/1/tasks/%d", task.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = perform(t, router, http.MethodDelete,
		fmt.Sprintf("/users/1/tasks/%d", task.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask_NotOwned(t *testing.T) {
	router := newTestRouter()
	task := createTask(t, router, 1, "mine")

	w := perform(t, router, http.MethodDelete,
		fmt.Sprintf("/users/2/tasks/%d", task.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearTasks(t *testing.T) {
	router := newTestRouter()
	for i := 0; i < 3; i++ {
		createTask(t, router, 1, "task")
	}
	createTask(t, router, 2, "other owner")

	w := perform(t, router, http.MethodDelete, "/users/1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, int64(3), result.Deleted)
	assert.NotEmpty(t, result.Message)

	w = perform(t, router, http.MethodGet, "/users/1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = perform(t, router, http.MethodGet, "/users/2/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
}

func TestClearTasks_OverQuota(t *testing.T) {
	router := newTestRouter()
	for i := 0; i < 51; i++ {
		createTask(t, router, 1, "task")
	}

	w := perform(t, router, http.MethodDelete, "/users/1/tasks", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(t, router, http.MethodGet, "/users/1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 51)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(v1.RequestIDMiddleware(zerolog.Nop()))

	taskService := services.NewTaskService(zerolog.Nop(), memory.NewTaskRepository())
	v1.RegisterRoutes(router, v1.New(zerolog.Nop(), taskService))

	w := perform(t, router, http.MethodGet, "/users/1/tasks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, "/users/1/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "client-supplied")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Header().Get("X-Request-ID"))
}
