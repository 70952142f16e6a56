package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"todo-api/internal/docstore"
	"todo-api/internal/models"
)

// TaskCollection is the default collection name for task documents.
const TaskCollection = "tasks"

// TaskInput carries the client-supplied fields for creating a task.
// The id is always store-assigned and never part of the input.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

type TaskService interface {
	AddTask(ctx context.Context, input TaskInput) (models.Task, error)
	GetTasks(ctx context.Context) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (map[string]interface{}, error)
	DeleteTask(ctx context.Context, id string) error
}

// allowedUpdateFields is the patch allow-list. The name is immutable
// after creation and is deliberately absent.
var allowedUpdateFields = map[string]bool{
	"description": true,
	"status":      true,
	"priority":    true,
	"deadline":    true,
}

type taskService struct {
	tasks docstore.Collection
}

// NewTaskService returns the task service bound to its storage collection.
func NewTaskService(tasks docstore.Collection) TaskService {
	return &taskService{tasks: tasks}
}

// AddTask validates and normalizes the input, enforces name uniqueness,
// and persists the task. Validation happens before any storage call.
// The uniqueness check and the write share one failure scope: only the
// conflict itself surfaces as such, every other failure in that scope
// becomes a generic persistence error.
func (s *taskService) AddTask(ctx context.Context, input TaskInput) (models.Task, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	if name == "" || description == "" || input.Deadline == "" || input.Status == "" || input.Priority == "" {
		return models.Task{}, validationError("Missing required fields.")
	}
	if !models.Status(input.Status).Valid() {
		return models.Task{}, validationError("status must be one of: %s.", models.AllowedStatuses())
	}
	if !models.Priority(input.Priority).Valid() {
		return models.Task{}, validationError("priority must be one of: %s.", models.AllowedPriorities())
	}

	existing, err := s.tasks.Where(ctx, "name", name, 1)
	if err != nil {
		return models.Task{}, persistenceError("Failed to save task to the database.")
	}
	if len(existing) > 0 {
		return models.Task{}, conflictError("Task with name %q already exists.", name)
	}

	data := map[string]interface{}{
		"name":        name,
		"description": description,
		"deadline":    input.Deadline,
		"status":      input.Status,
		"priority":    input.Priority,
	}
	id, err := s.tasks.Add(ctx, data)
	if err != nil {
		return models.Task{}, persistenceError("Failed to save task to the database.")
	}

	return models.Task{
		ID:          id,
		Name:        name,
		Description: description,
		Deadline:    input.Deadline,
		Status:      models.Status(input.Status),
		Priority:    models.Priority(input.Priority),
	}, nil
}

// GetTasks returns every stored task. An empty collection yields an
// empty slice, not an error.
func (s *taskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	docs, err := s.tasks.All(ctx)
	if err != nil {
		return nil, persistenceError("Failed to retrieve tasks from the database.")
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, taskFromDocument(doc))
	}
	return tasks, nil
}

// UpdateTask applies a partial merge of the allow-listed patch fields
// after re-checking the task exists. The return value echoes the patch
// merged with the id; the persisted document is not re-read.
func (s *taskService) UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (map[string]interface{}, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("Valid task ID is required for updating.")
	}

	var invalid []string
	for field := range patch {
		if !allowedUpdateFields[field] {
			invalid = append(invalid, field)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, validationError("Invalid fields provided for update: %s.", strings.Join(invalid, ", "))
	}
	if len(patch) == 0 {
		return nil, validationError("No valid fields provided for update.")
	}

	if value, ok := patch["status"]; ok {
		status, isString := value.(string)
		if !isString || !models.Status(status).Valid() {
			return nil, validationError("status must be one of: %s.", models.AllowedStatuses())
		}
	}
	if value, ok := patch["priority"]; ok {
		priority, isString := value.(string)
		if !isString || !models.Priority(priority).Valid() {
			return nil, validationError("priority must be one of: %s.", models.AllowedPriorities())
		}
	}

	_, found, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, persistenceError("Failed to update task in the database.")
	}
	if !found {
		return nil, notFoundError("Task with ID %q does not exist.", id)
	}

	if err := s.tasks.Update(ctx, id, patch); err != nil {
		return nil, persistenceError("Failed to update task in the database.")
	}

	result := map[string]interface{}{"id": id}
	for field, value := range patch {
		result[field] = value
	}
	return result, nil
}

// DeleteTask removes the task after re-checking it exists, so deleting
// the same id twice reports not-found on the second call.
func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationError("Valid task ID is required for deletion.")
	}

	_, found, err := s.tasks.Get(ctx, id)
	if err != nil {
		return persistenceError("Failed to delete task from the database.")
	}
	if !found {
		return notFoundError("Task with ID %q does not exist.", id)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return persistenceError("Failed to delete task from the database.")
	}
	return nil
}

func taskFromDocument(doc docstore.Document) models.Task {
	task := models.Task{ID: doc.ID}
	if raw, err := json.Marshal(doc.Data); err == nil {
		json.Unmarshal(raw, &task)
		task.ID = doc.ID
	}
	return task
}
