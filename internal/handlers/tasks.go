package handlers

import (
	"log"
	"net/http"

	"todo-api/internal/services"
	"todo-api/internal/worker"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService services.TaskService
	jobs        *worker.JobQueue
}

// NewTaskHandler wires the handler to its service. The job queue is
// optional; reminder jobs are skipped when it is nil.
func NewTaskHandler(taskService services.TaskService, jobs *worker.JobQueue) *TaskHandler {
	return &TaskHandler{taskService: taskService, jobs: jobs}
}

func (h *TaskHandler) AddTask(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.AddTask(c.Request.Context(), input)
	if err != nil {
		renderError(c, err, "An unexpected error occurred.")
		return
	}

	h.scheduleReminder(task.ID, task.Name, task.Deadline)
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.GetTasks(c.Request.Context())
	if err != nil {
		// The list operation surfaces the raw message rather than a
		// canonical fallback.
		renderError(c, err, err.Error())
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.taskService.UpdateTask(c.Request.Context(), id, patch)
	if err != nil {
		renderError(c, err, "Failed to update task in the database.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")

	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		renderError(c, err, "Failed to delete task from the database.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// renderError maps a service error kind to its HTTP status. Errors from
// outside the service taxonomy get a 500 with the per-operation fallback
// message.
func renderError(c *gin.Context, err error, fallback string) {
	kind, ok := services.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindPersistence:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// scheduleReminder enqueues a deadline reminder for a freshly created
// task. Best effort only: queue failures are logged and never affect
// the response.
func (h *TaskHandler) scheduleReminder(id, name, deadline string) {
	if h.jobs == nil {
		return
	}

	err := h.jobs.Enqueue(worker.JobTypeTaskReminder, map[string]interface{}{
		"task_id":  id,
		"name":     name,
		"deadline": deadline,
	})
	if err != nil {
		log.Printf("failed to enqueue reminder for task %s: %v", id, err)
	}
}
