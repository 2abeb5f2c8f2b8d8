package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskRouter(q *memQueue, s *memStore) http.Handler {
	h := NewTaskHandler(newTestService(q, s), testLogger())
	r := chi.NewRouter()
	r.Post("/api/queue/{type}", h.QueueTask)
	r.Get("/api/task/{taskID}", h.GetTaskStatus)
	return r
}

func TestQueueTask(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid submission with 202", func(t *testing.T) {
		t.Parallel()

		q := newMemQueue()
		router := taskRouter(q, newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/text-generation",
			strings.NewReader(`{"prompt":"a house","image_base64":"aGVsbG8="}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp QueueTaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.TaskID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "Task submitted successfully", resp.Message)

		jobs := q.jobs()
		require.Len(t, jobs, 1)
		assert.Equal(t, resp.TaskID, jobs[0].TaskID)
		assert.Equal(t, "text-generation", jobs[0].Type)
	})

	t.Run("echoes a caller-supplied task id", func(t *testing.T) {
		t.Parallel()

		router := taskRouter(newMemQueue(), newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/text-generation",
			strings.NewReader(`{"task_id":"my-id"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)
		var resp QueueTaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "my-id", resp.TaskID)
	})

	t.Run("rejects an unsupported task type", func(t *testing.T) {
		t.Parallel()

		q := newMemQueue()
		router := taskRouter(q, newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/video-generation",
			strings.NewReader(`{"prompt":"x"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unsupported task type")
		assert.Empty(t, q.jobs())
	})

	t.Run("rejects failed preconditions without queueing", func(t *testing.T) {
		t.Parallel()

		q := newMemQueue()
		router := taskRouter(q, newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/code-edit",
			strings.NewReader(`{"prompt":"make it red"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "scene code is required for editing")
		assert.Empty(t, q.jobs())
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		t.Parallel()

		router := taskRouter(newMemQueue(), newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/text-generation",
			strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects out-of-range sampling parameters", func(t *testing.T) {
		t.Parallel()

		router := taskRouter(newMemQueue(), newMemStore())

		req := httptest.NewRequest(http.MethodPost, "/api/queue/text-generation",
			strings.NewReader(`{"temperature": 5}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Validation error")
	})
}

func TestGetTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("finished task returns status and result", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		s.put("task-1", `{"status":"success","content":"code","task_id":"task-1"}`)
		router := taskRouter(newMemQueue(), s)

		req := httptest.NewRequest(http.MethodGet, "/api/task/task-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "task-1", resp.TaskID)
		assert.Equal(t, "completed", resp.Status)
		assert.JSONEq(t, `{"status":"success","content":"code","task_id":"task-1"}`,
			string(resp.Result))
	})

	t.Run("unknown task reports pending", func(t *testing.T) {
		t.Parallel()

		router := taskRouter(newMemQueue(), newMemStore())

		req := httptest.NewRequest(http.MethodGet, "/api/task/unknown", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Empty(t, resp.Result)
	})
}
