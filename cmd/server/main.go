package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"todo-api/internal/cache"
	"todo-api/internal/config"
	"todo-api/internal/docstore"
	"todo-api/internal/handlers"
	"todo-api/internal/monitoring"
	"todo-api/internal/services"
	"todo-api/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := docstore.OpenDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	store, err := docstore.NewGormStore(db)
	if err != nil {
		log.Fatalf("failed to initialize document store: %v", err)
	}

	var taskService services.TaskService = services.NewTaskService(store.Collection(services.TaskCollection))

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	if err := redisCache.Health(); err != nil {
		log.Printf("redis unavailable, running without cache: %v", err)
	} else {
		taskService = services.NewCachedTaskService(taskService, redisCache)
	}

	var jobQueue *worker.JobQueue
	var jobWorker *worker.Worker
	if cfg.Worker.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		jobQueue = worker.NewJobQueue(redisClient)
		jobWorker = worker.NewWorker(worker.Config{
			RedisClient:  redisClient,
			PollInterval: cfg.Worker.PollInterval,
		})
		jobWorker.RegisterHandler(worker.JobTypeTaskReminder, handleTaskReminder)
		jobWorker.Start(cfg.Worker.Concurrency)
		defer jobWorker.Stop()
	}

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	taskHandler := handlers.NewTaskHandler(taskService, jobQueue)
	router := handlers.NewRouter(cfg, taskHandler)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func handleTaskReminder(ctx context.Context, job *worker.Job) error {
	log.Printf("reminder scheduled for task %v (%v), due %v",
		job.Payload["task_id"], job.Payload["name"], job.Payload["deadline"])
	return nil
}
