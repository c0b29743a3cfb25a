package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"pickchess/internal/storage"
)

const archiveQueueSize = 256

// archiveQueue runs archive writes on one goroutine, in the order they were
// queued, so a slow backend never holds the service lock
type archiveQueue struct {
	store storage.Archive
	jobs  chan archiveJob
	done  chan struct{}
	log   *zap.Logger
}

type archiveJob struct {
	what string
	run  func(storage.Archive) error
}

func newArchiveQueue(store storage.Archive, log *zap.Logger) *archiveQueue {
	q := &archiveQueue{
		store: store,
		jobs:  make(chan archiveJob, archiveQueueSize),
		done:  make(chan struct{}),
		log:   log,
	}
	go q.loop()
	return q
}

func (q *archiveQueue) loop() {
	defer close(q.done)
	for job := range q.jobs {
		if err := job.run(q.store); err != nil {
			q.log.Warn("archive_write_failed", zap.String("op", job.what), zap.Error(err))
		}
	}
}

// push queues a write, dropping it when the queue is full. Caller holds s.mu.
func (q *archiveQueue) push(what string, run func(storage.Archive) error) {
	select {
	case q.jobs <- archiveJob{what: what, run: run}:
	default:
		q.log.Warn("archive_queue_full", zap.String("dropped", what))
	}
}

// drain stops accepting writes and waits for queued ones to finish.
// Caller holds s.mu.
func (q *archiveQueue) drain(timeout time.Duration) error {
	close(q.jobs)
	select {
	case <-q.done:
		return nil
	case <-time.After(timeout):
		return errors.New("archive queue drain timed out")
	}
}
