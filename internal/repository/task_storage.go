package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/veranemoloko/vreddit-downloader/internal/domain"
	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
)

// TaskStorage keeps tasks in memory and mirrors them to a JSON state file.
type TaskStorage struct {
	mu     sync.RWMutex
	fileMu sync.Mutex
	tasks  map[uuid.UUID]*domain.Task
	file   string
}

// NewTaskStorage creates a new TaskStorage and loads tasks from the file if it exists.
func NewTaskStorage(filePath string) (*TaskStorage, error) {
	repo := &TaskStorage{
		tasks: make(map[uuid.UUID]*domain.Task),
		file:  filepath.Clean(filePath),
	}

	if err := repo.restoreTasks(); err != nil {
		return nil, fmt.Errorf("failed to load state from file: %w", err)
	}

	slog.Info("task repository initialized", "file_path", repo.file, "tasks_count", len(repo.tasks))
	return repo, nil
}

func (r *TaskStorage) restoreTasks() error {
	data, err := os.ReadFile(r.file)
	if os.IsNotExist(err) {
		slog.Info("state file does not exist, starting with empty state", "file_path", r.file)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) == 0 {
		slog.Warn("state file is empty", "file_path", r.file)
		return nil
	}

	var tasks []*domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return fmt.Errorf("failed to unmarshal state file: %w", err)
	}

	for _, task := range tasks {
		r.tasks[task.ID] = task
	}

	slog.Info("state loaded from file", "tasks_count", len(tasks), "file_path", r.file)
	return nil
}

// persistTasks writes a snapshot through a temp file and rename so readers never see a partial file.
func (r *TaskStorage) persistTasks() error {
	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	r.mu.RLock()
	tasks := make([]*domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	data, err := json.MarshalIndent(sortedByCreation(tasks), "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	tempFile := r.file + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, r.file); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	slog.Debug("state saved to file", "tasks_count", len(tasks), "file_path", r.file)
	return nil
}

// CreateTask adds a new task and persists it to the file.
func (r *TaskStorage) CreateTask(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.tasks[task.ID] = clone(task)
	r.mu.Unlock()

	if err := r.persistTasks(); err != nil {
		return fmt.Errorf("failed to save state after creating task: %w", err)
	}

	slog.Debug("task created and saved", "task_id", task.ID)
	return nil
}

// GetTask retrieves a copy of the task with the given ID.
func (r *TaskStorage) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	task, exists := r.tasks[id]
	r.mu.RUnlock()

	if !exists {
		return nil, errpkg.ErrTaskNotFound
	}
	return clone(task), nil
}

// UpdateTask replaces an existing task and persists it to the file.
func (r *TaskStorage) UpdateTask(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.tasks[task.ID]; !exists {
		r.mu.Unlock()
		return errpkg.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = clone(task)
	r.mu.Unlock()

	if err := r.persistTasks(); err != nil {
		return fmt.Errorf("failed to save state after updating task: %w", err)
	}

	slog.Debug("task updated and saved", "task_id", task.ID, "status", task.Status)
	return nil
}

// GetTasksByStatus returns copies of all tasks with the specified status, oldest first.
func (r *TaskStorage) GetTasksByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var filtered []*domain.Task
	for _, task := range r.tasks {
		if task.Status == status {
			filtered = append(filtered, clone(task))
		}
	}
	r.mu.RUnlock()

	return sortedByCreation(filtered), nil
}

func clone(task *domain.Task) *domain.Task {
	cp := *task
	if task.Result != nil {
		result := *task.Result
		cp.Result = &result
	}
	return &cp
}

func sortedByCreation(tasks []*domain.Task) []*domain.Task {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}
