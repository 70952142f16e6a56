package services

import (
	"context"
	"log"
	"time"

	"todo-api/internal/cache"
	"todo-api/internal/models"
)

const (
	taskListKey = "tasks:all"
	taskListTTL = 10 * time.Minute
)

// CachedTaskService decorates a TaskService with a Redis cache for the
// task list. Cache failures are soft: a miss or an unavailable cache
// falls through to the wrapped service and never changes its semantics.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.RedisCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func (s *CachedTaskService) AddTask(ctx context.Context, input TaskInput) (models.Task, error) {
	task, err := s.taskService.AddTask(ctx, input)
	if err != nil {
		return task, err
	}

	s.invalidateList()
	return task, nil
}

func (s *CachedTaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	var cached []models.Task
	if err := s.cache.Get(taskListKey, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.GetTasks(ctx)
	if err != nil {
		return tasks, err
	}

	if err := s.cache.Set(taskListKey, tasks, taskListTTL); err != nil {
		log.Printf("failed to cache task list: %v", err)
	}
	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (map[string]interface{}, error) {
	result, err := s.taskService.UpdateTask(ctx, id, patch)
	if err != nil {
		return result, err
	}

	s.invalidateList()
	return result, nil
}

func (s *CachedTaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskService.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.invalidateList()
	return nil
}

func (s *CachedTaskService) invalidateList() {
	if err := s.cache.Delete(taskListKey); err != nil {
		log.Printf("failed to invalidate task list cache: %v", err)
	}
}
