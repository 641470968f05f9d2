package queue

import (
	"context"
	"errors"
	"sync"

	"SynapseFund/pkg/logger"
)

// ErrQueueClosed is returned when submitting to a stopped pool.
var ErrQueueClosed = errors.New("queue: pool closed")

// ErrQueueFull is returned when the job buffer is saturated.
var ErrQueueFull = errors.New("queue: buffer full")

// Job is a unit of work executed by the pool.
type Job func(ctx context.Context)

// Pool is a bounded in-process worker pool. Jobs are dispatched to a
// fixed set of workers through a buffered channel; submission never
// blocks the caller.
type Pool struct {
	jobs    chan Job
	workers int
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBuffer sets the job buffer capacity.
func WithBuffer(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.jobs = make(chan Job, n)
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pool) {
		p.log = log
	}
}

// NewPool creates and starts a worker pool.
func NewPool(opts ...Option) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		jobs:    make(chan Job, 256),
		workers: 8,
		ctx:     ctx,
		cancel:  cancel,
	}

	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}

	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.execute(id, job)
		}
	}
}

func (p *Pool) execute(id int, job Job) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Error("worker recovered from panic",
				logger.Int("worker", id),
				logger.Any("panic", r))
		}
	}()
	job(p.ctx)
}

// Submit enqueues a job for execution. It returns ErrQueueFull when the
// buffer is saturated instead of blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrQueueClosed
	}
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for in-flight work to finish.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	return nil
}

// Shutdown cancels in-flight jobs and waits for workers to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
