package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/veranemoloko/vreddit-downloader/internal/config"
	"github.com/veranemoloko/vreddit-downloader/internal/domain"
	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
	"github.com/veranemoloko/vreddit-downloader/internal/metrics"
	"github.com/veranemoloko/vreddit-downloader/internal/quality"
	repo "github.com/veranemoloko/vreddit-downloader/internal/repository"
)

// ErrShuttingDown is returned when a task is submitted after Shutdown.
var ErrShuttingDown = errors.New("service is shutting down")

// Downloader runs one download to completion.
type Downloader interface {
	Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error)
}

// TaskService queues downloads and runs them on a fixed pool of workers.
type TaskService struct {
	taskRepo   repo.TaskRepo
	downloader Downloader
	cfg        *config.Config
	logger     *slog.Logger

	queue chan uuid.UUID
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewTaskService creates the service and starts cfg.WorkerPoolSize workers.
func NewTaskService(taskRepo repo.TaskRepo, downloader Downloader, cfg *config.Config, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TaskService{
		taskRepo:   taskRepo,
		downloader: downloader,
		cfg:        cfg,
		logger:     logger,
		queue:      make(chan uuid.UUID, cfg.QueueSize),
		done:       make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerPoolSize; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("task service started", "workers", cfg.WorkerPoolSize, "queue_size", cfg.QueueSize)
	return s
}

// CreateTask validates the qualities, persists a pending task and queues it.
// Empty qualities fall back to the configured defaults.
func (s *TaskService) CreateTask(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error) {
	select {
	case <-s.done:
		return nil, ErrShuttingDown
	default:
	}

	video, audio := s.cfg.DefaultPolicies()
	if req.VideoQuality != "" {
		p, err := quality.Parse(req.VideoQuality)
		if err != nil {
			return nil, err
		}
		video = p
	}
	if req.AudioQuality != "" {
		p, err := quality.Parse(req.AudioQuality)
		if err != nil {
			return nil, err
		}
		audio = p
	}

	now := time.Now()
	task := &domain.Task{
		ID:           uuid.New(),
		URL:          req.URL,
		VideoQuality: video.String(),
		AudioQuality: audio.String(),
		Status:       domain.TaskStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	metrics.TasksCreated.Inc()

	if err := s.enqueue(ctx, task.ID); err != nil {
		// Not queued, so recovery must not run it later either.
		task.Status = domain.TaskStatusFailed
		task.Error = err.Error()
		task.ErrorKind = errpkg.Kind(err)
		metrics.TasksFailed.Inc()
		s.saveTask(task, s.logger.With("task_id", task.ID))
		return nil, err
	}

	s.logger.Info("task created", "task_id", task.ID, "url", task.URL,
		"video_quality", task.VideoQuality, "audio_quality", task.AudioQuality)
	return task, nil
}

// GetTask returns the current state of a task.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskRepo.GetTask(ctx, id)
}

// RecoverPendingTasks requeues tasks left pending or in progress by a previous run.
func (s *TaskService) RecoverPendingTasks(ctx context.Context) error {
	var recovered int
	for _, status := range []domain.TaskStatus{domain.TaskStatusInProgress, domain.TaskStatusPending} {
		tasks, err := s.taskRepo.GetTasksByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("failed to list %s tasks: %w", status, err)
		}
		for _, task := range tasks {
			if task.Status == domain.TaskStatusInProgress {
				task.Status = domain.TaskStatusPending
				if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
					return fmt.Errorf("failed to reset task %s: %w", task.ID, err)
				}
			}
			if err := s.enqueue(ctx, task.ID); err != nil {
				return err
			}
			recovered++
		}
	}

	if recovered > 0 {
		s.logger.Info("recovered unfinished tasks", "count", recovered)
	}
	return nil
}

// Shutdown stops accepting tasks, cancels running downloads and waits for the workers to exit.
// Queued and interrupted tasks stay pending and are picked up by RecoverPendingTasks on the next start.
func (s *TaskService) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down task service")
	s.once.Do(func() { close(s.done) })

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		s.logger.Info("task service shutdown completed")
		return nil
	case <-ctx.Done():
		s.logger.Warn("task service shutdown timed out")
		return ctx.Err()
	}
}

func (s *TaskService) enqueue(ctx context.Context, id uuid.UUID) error {
	select {
	case s.queue <- id:
		return nil
	case <-s.done:
		return ErrShuttingDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TaskService) worker(n int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case id := <-s.queue:
			s.processTask(id, n)
		}
	}
}

func (s *TaskService) processTask(id uuid.UUID, workerID int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DownloadTimeout)
	defer cancel()

	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	logger := s.logger.With("task_id", id, "worker", workerID)

	task, err := s.taskRepo.GetTask(ctx, id)
	if err != nil {
		logger.Error("failed to load task", "error", err)
		return
	}
	if task.IsFinished() {
		return
	}

	task.Status = domain.TaskStatusInProgress
	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		logger.Error("failed to mark task in progress", "error", err)
		return
	}

	req, err := s.downloadRequest(task)
	var result *domain.DownloadResult
	if err == nil {
		logger.Info("start processing task", "url", task.URL)
		result, err = s.downloader.Download(ctx, req)
	}

	select {
	case <-s.done:
		if err != nil {
			// Leave it for recovery on the next start.
			task.Status = domain.TaskStatusPending
			s.saveTask(task, logger)
			logger.Warn("task interrupted by shutdown")
			return
		}
	default:
	}

	if err != nil {
		task.Status = domain.TaskStatusFailed
		task.Error = err.Error()
		task.ErrorKind = errpkg.Kind(err)
		metrics.TasksFailed.Inc()
		logger.Error("task processing failed", "error", err, "kind", task.ErrorKind)
	} else {
		task.Status = domain.TaskStatusCompleted
		task.Result = result
		metrics.TasksCompleted.Inc()
		logger.Info("task completed successfully", "path", result.Path)
	}
	s.saveTask(task, logger)
}

func (s *TaskService) downloadRequest(task *domain.Task) (domain.DownloadRequest, error) {
	video, err := quality.Parse(task.VideoQuality)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	audio, err := quality.Parse(task.AudioQuality)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	return domain.DownloadRequest{
		URL:    task.URL,
		Output: s.cfg.DownloadDir,
		Video:  video,
		Audio:  audio,
	}, nil
}

// saveTask uses a fresh context so the final state is stored even after the download context expired.
func (s *TaskService) saveTask(task *domain.Task, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		logger.Error("failed to save task", "error", err, "status", task.Status)
	}
}
