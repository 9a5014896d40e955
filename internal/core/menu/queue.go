package menu

import (
	"context"
	"sync"
	"sync/atomic"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Status reports queue state for the health endpoint.
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
}

type job struct {
	ctx    context.Context
	run    func(ctx context.Context) error
	result chan error
}

// Queue runs planning jobs one at a time, in arrival order. Day generation
// depends on the days before it, so two range requests must never interleave.
type Queue struct {
	maxSize   int
	jobs      chan *job
	done      chan struct{}
	stopped   chan struct{}
	processed int64
	wg        sync.WaitGroup
	once      sync.Once
}

// NewQueue starts the worker.
func NewQueue(maxSize int) *Queue {
	if maxSize < 1 {
		maxSize = 1
	}
	q := &Queue{
		maxSize: maxSize,
		jobs:    make(chan *job, maxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	defer close(q.stopped)
	for {
		select {
		case j := <-q.jobs:
			q.execute(j)
		case <-q.done:
			// fail whatever is still waiting
			for {
				select {
				case j := <-q.jobs:
					j.result <- common.Wrapf(common.ErrServiceUnavailable, "planning queue closed")
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) execute(j *job) {
	err := j.ctx.Err()
	if err == nil {
		err = j.run(j.ctx)
	}
	atomic.AddInt64(&q.processed, 1)
	j.result <- err
}

// Do enqueues fn and waits for it to finish. It fails fast with
// common.ErrQueueFull when the queue is at capacity.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case <-q.done:
		return common.Wrapf(common.ErrServiceUnavailable, "planning queue closed")
	default:
	}

	j := &job{ctx: ctx, run: fn, result: make(chan error, 1)}
	select {
	case q.jobs <- j:
		common.LogDebug("Planning job enqueued",
			zap.Int("queue_length", len(q.jobs)),
			zap.Int("max_queue_size", q.maxSize),
		)
	default:
		common.LogWarn("Planning queue full", zap.Int("max_queue_size", q.maxSize))
		return common.Wrapf(common.ErrQueueFull, "%d jobs waiting", q.maxSize)
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stopped:
		select {
		case err := <-j.result:
			return err
		default:
			return common.Wrapf(common.ErrServiceUnavailable, "planning queue closed")
		}
	}
}

// Status returns current queue counters.
func (q *Queue) Status() Status {
	return Status{
		QueueLength:    len(q.jobs),
		ProcessedCount: atomic.LoadInt64(&q.processed),
		MaxQueueSize:   q.maxSize,
	}
}

// Close stops the worker after the running job finishes.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
}
