// Package worker runs background jobs off a Redis list queue. The API
// enqueues best-effort jobs (deadline reminders); the worker pool pops,
// dispatches by job type, retries with backoff, and parks permanently
// failing jobs on a dead queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

type JobType string

const (
	JobTypeTaskReminder JobType = "task_reminder"
	JobTypeCleanup      JobType = "cleanup"
)

const (
	defaultQueue = "tasks:jobs"
	retryQueue   = "tasks:jobs:retry"
	deadQueue    = "tasks:jobs:dead"
)

type Job struct {
	ID        string                 `json:"id"`
	Type      JobType                `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Attempts  int                    `json:"attempts"`
	MaxTries  int                    `json:"max_tries"`
	CreatedAt time.Time              `json:"created_at"`
}

type JobHandler func(ctx context.Context, job *Job) error

type Worker struct {
	client   *redis.Client
	handlers map[JobType]JobHandler
	queues   []string
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

type Config struct {
	RedisClient  *redis.Client
	PollInterval time.Duration
	Queues       []string
}

func NewWorker(config Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	queues := config.Queues
	if len(queues) == 0 {
		queues = []string{defaultQueue, retryQueue}
	}

	return &Worker{
		client:   config.RedisClient,
		handlers: make(map[JobType]JobHandler),
		queues:   queues,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *Worker) RegisterHandler(jobType JobType, handler JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = handler
}

func (w *Worker) Start(concurrency int) {
	log.Printf("starting worker with %d goroutines", concurrency)

	for i := 0; i < concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop()
	}
}

func (w *Worker) Stop() {
	log.Println("stopping worker...")
	w.cancel()
	w.wg.Wait()
	log.Println("worker stopped")
}

func (w *Worker) workerLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
			if err := w.processNextJob(); err != nil {
				log.Printf("error processing job: %v", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) processNextJob() error {
	result, err := w.client.BLPop(w.ctx, 5*time.Second, w.queues...).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to pop job: %w", err)
	}
	if len(result) < 2 {
		return fmt.Errorf("invalid job result")
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return w.executeJob(&job)
}

func (w *Worker) executeJob(job *Job) error {
	w.mu.RLock()
	handler, exists := w.handlers[job.Type]
	w.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no handler registered for job type: %s", job.Type)
	}

	ctx, cancel := context.WithTimeout(w.ctx, 30*time.Second)
	defer cancel()

	if err := handler(ctx, job); err != nil {
		job.Attempts++
		if job.Attempts < job.MaxTries {
			log.Printf("job %s failed (attempt %d/%d), retrying: %v",
				job.ID, job.Attempts, job.MaxTries, err)
			return w.pushJob(retryQueue, job)
		}

		log.Printf("job %s failed permanently after %d attempts: %v",
			job.ID, job.Attempts, err)
		return w.pushJob(deadQueue, job)
	}

	return nil
}

func (w *Worker) pushJob(queue string, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return w.client.RPush(w.ctx, queue, data).Err()
}

type JobQueue struct {
	client *redis.Client
}

func NewJobQueue(client *redis.Client) *JobQueue {
	return &JobQueue{client: client}
}

func (q *JobQueue) Enqueue(jobType JobType, payload map[string]interface{}) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate job id: %w", err)
	}

	job := &Job{
		ID:        id.String(),
		Type:      jobType,
		Payload:   payload,
		Attempts:  0,
		MaxTries:  3,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return q.client.RPush(ctx, defaultQueue, data).Err()
}

func (q *JobQueue) Size() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return q.client.LLen(ctx, defaultQueue).Result()
}
