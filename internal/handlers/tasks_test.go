package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo-api/internal/handlers"
	"todo-api/internal/models"
	"todo-api/internal/services"

	"github.com/gin-gonic/gin"
)

type MockTaskService struct {
	addResult    models.Task
	addErr       error
	tasks        []models.Task
	listErr      error
	updateResult map[string]interface{}
	updateErr    error
	deleteErr    error
}

func (m *MockTaskService) AddTask(ctx context.Context, input services.TaskInput) (models.Task, error) {
	return m.addResult, m.addErr
}

func (m *MockTaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.tasks == nil {
		return []models.Task{}, nil
	}
	return m.tasks, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (map[string]interface{}, error) {
	return m.updateResult, m.updateErr
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	return m.deleteErr
}

func setupTaskHandler(mockService *MockTaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewTaskHandler(mockService, nil)
	router := gin.New()

	tasks := router.Group("/tasks")
	tasks.POST("/add", handler.AddTask)
	tasks.GET("/all", handler.GetTasks)
	tasks.PUT("/update/:id", handler.UpdateTask)
	tasks.DELETE("/delete/:id", handler.DeleteTask)

	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal error body: %v", err)
	}
	return body["error"]
}

func TestAddTaskCreated(t *testing.T) {
	mockService := &MockTaskService{
		addResult: models.Task{
			ID:          "id123",
			Name:        "Reading",
			Description: "Story book reading",
			Deadline:    "2025-11-21",
			Status:      models.StatusPending,
			Priority:    models.PriorityLow,
		},
	}
	router := setupTaskHandler(mockService)

	w := doJSON(router, "POST", "/tasks/add", map[string]string{
		"name":        "Reading",
		"description": "Story book reading",
		"deadline":    "2025-11-21",
		"status":      "Pending",
		"priority":    "Low",
	})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if task.ID != "id123" {
		t.Errorf("Expected id 'id123', got '%s'", task.ID)
	}
}

func TestAddTaskInvalidJSON(t *testing.T) {
	router := setupTaskHandler(&MockTaskService{})

	req, _ := http.NewRequest("POST", "/tasks/add", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAddTaskErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        &services.Error{Kind: services.KindValidation, Message: "Missing required fields."},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields.",
		},
		{
			name:       "invalid status",
			err:        &services.Error{Kind: services.KindValidation, Message: "status must be one of: Pending, In Progress, Completed."},
			wantStatus: http.StatusBadRequest,
			wantError:  "status must be one of: Pending, In Progress, Completed.",
		},
		{
			name:       "conflict",
			err:        &services.Error{Kind: services.KindConflict, Message: `Task with name "Reading" already exists.`},
			wantStatus: http.StatusConflict,
			wantError:  `Task with name "Reading" already exists.`,
		},
		{
			name:       "persistence",
			err:        &services.Error{Kind: services.KindPersistence, Message: "Failed to save task to the database."},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to save task to the database.",
		},
		{
			name:       "unclassified",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "An unexpected error occurred.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTaskHandler(&MockTaskService{addErr: tt.err})

			w := doJSON(router, "POST", "/tasks/add", map[string]string{"name": "x"})

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := errorMessage(t, w); got != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, got)
			}
		})
	}
}

func TestGetTasksEmpty(t *testing.T) {
	router := setupTaskHandler(&MockTaskService{})

	w := doJSON(router, "GET", "/tasks/all", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("Expected empty array body, got %s", w.Body.String())
	}
}

func TestGetTasks(t *testing.T) {
	mockService := &MockTaskService{
		tasks: []models.Task{
			{ID: "a", Name: "Reading", Status: models.StatusPending, Priority: models.PriorityLow},
			{ID: "b", Name: "Writing", Status: models.StatusCompleted, Priority: models.PriorityHigh},
		},
	}
	router := setupTaskHandler(mockService)

	w := doJSON(router, "GET", "/tasks/all", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(tasks))
	}
}

func TestGetTasksSurfacesRawErrorMessage(t *testing.T) {
	// The list operation passes the error message through as-is instead
	// of substituting a canonical string.
	router := setupTaskHandler(&MockTaskService{listErr: errors.New("connection reset")})

	w := doJSON(router, "GET", "/tasks/all", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if got := errorMessage(t, w); got != "connection reset" {
		t.Errorf("Expected raw error message, got %q", got)
	}
}

func TestUpdateTaskOK(t *testing.T) {
	mockService := &MockTaskService{
		updateResult: map[string]interface{}{"id": "id123", "status": "Completed"},
	}
	router := setupTaskHandler(mockService)

	w := doJSON(router, "PUT", "/tasks/update/id123", map[string]string{"status": "Completed"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if body["id"] != "id123" || body["status"] != "Completed" {
		t.Errorf("Expected patch echo with id, got %v", body)
	}
}

func TestUpdateTaskErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid fields",
			err:        &services.Error{Kind: services.KindValidation, Message: "Invalid fields provided for update: name."},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid fields provided for update: name.",
		},
		{
			name:       "not found",
			err:        &services.Error{Kind: services.KindNotFound, Message: `Task with ID "id123" does not exist.`},
			wantStatus: http.StatusNotFound,
			wantError:  `Task with ID "id123" does not exist.`,
		},
		{
			name:       "unclassified",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to update task in the database.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTaskHandler(&MockTaskService{updateErr: tt.err})

			w := doJSON(router, "PUT", "/tasks/update/id123", map[string]string{"status": "Completed"})

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := errorMessage(t, w); got != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, got)
			}
		})
	}
}

func TestDeleteTaskOK(t *testing.T) {
	router := setupTaskHandler(&MockTaskService{})

	w := doJSON(router, "DELETE", "/tasks/delete/id123", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if body["message"] != "Task deleted" {
		t.Errorf("Expected message 'Task deleted', got %q", body["message"])
	}
}

func TestDeleteTaskErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        &services.Error{Kind: services.KindValidation, Message: "Valid task ID is required for deletion."},
			wantStatus: http.StatusBadRequest,
			wantError:  "Valid task ID is required for deletion.",
		},
		{
			name:       "not found",
			err:        &services.Error{Kind: services.KindNotFound, Message: `Task with ID "id123" does not exist.`},
			wantStatus: http.StatusNotFound,
			wantError:  `Task with ID "id123" does not exist.`,
		},
		{
			name:       "unclassified",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to delete task from the database.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTaskHandler(&MockTaskService{deleteErr: tt.err})

			w := doJSON(router, "DELETE", "/tasks/delete/id123", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := errorMessage(t, w); got != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, got)
			}
		})
	}
}
