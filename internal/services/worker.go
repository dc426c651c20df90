package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/pkg/logger"
)

// Worker processes async auto-rate tasks from the Redis queue.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *AutoRateTask) error
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewWorker creates a worker, or nil when Redis is disabled.
func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error().Err(err).Str("type", task.Type()).Msg("task processing failed")
			}),
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// SetProcessor sets the function invoked per auto-rate task.
func (w *Worker) SetProcessor(processor func(context.Context, *AutoRateTask) error) {
	w.processor = processor
}

// Start begins processing tasks.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeAutoRate, w.handleAutoRateTask)

	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Info().Msg("starting async worker")
		if err := w.server.Run(w.mux); err != nil {
			logger.Error().Err(err).Msg("async worker stopped")
		}
	}()

	return nil
}

// Stop gracefully shuts down the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Info().Msg("async worker shut down")
}

func (w *Worker) handleAutoRateTask(ctx context.Context, task *asynq.Task) error {
	var t AutoRateTask
	if err := json.Unmarshal(task.Payload(), &t); err != nil {
		return err
	}
	if w.processor == nil {
		logger.Warn().Uint("contribution_id", t.ContributionID).Msg("worker has no processor, dropping task")
		return nil
	}
	return w.processor(ctx, &t)
}

var globalWorker *Worker

// InitWorker creates and remembers the global worker instance.
func InitWorker(cfg *config.RedisConfig) *Worker {
	globalWorker = NewWorker(cfg)
	return globalWorker
}
