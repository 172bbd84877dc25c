package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NotificationTask delivers one notification. Tasks run independently: a
// failing task is logged and never affects the others.
type NotificationTask struct {
	Name string
	Run  func(ctx context.Context) error
}

type QueueConfig struct {
	Workers int
	Size    int
	Timeout time.Duration
}

// NotificationQueue is a bounded in-process queue drained by a fixed worker pool.
type NotificationQueue struct {
	tasks   chan NotificationTask
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotificationQueue(logger *slog.Logger, config QueueConfig) *NotificationQueue {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Size <= 0 {
		config.Size = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	q := &NotificationQueue{
		tasks:   make(chan NotificationTask, config.Size),
		logger:  logger.With("component", "notification_queue"),
		timeout: config.Timeout,
	}

	q.wg.Add(config.Workers)
	for i := 0; i < config.Workers; i++ {
		go q.worker(i)
	}
	return q
}

// Enqueue never blocks. It returns false when the queue is full or closed,
// in which case the task is dropped.
func (q *NotificationQueue) Enqueue(task NotificationTask) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("Notification dropped, queue closed", "task", task.Name)
		return false
	}

	select {
	case q.tasks <- task:
		return true
	default:
		q.logger.Warn("Notification dropped, queue full", "task", task.Name, "capacity", cap(q.tasks))
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *NotificationQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *NotificationQueue) worker(id int) {
	defer q.wg.Done()
	for task := range q.tasks {
		if err := q.run(task); err != nil {
			q.logger.Error("Notification task failed", "worker", id, "task", task.Name, "error", err)
		}
	}
}

func (q *NotificationQueue) run(task NotificationTask) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return task.Run(ctx)
}
