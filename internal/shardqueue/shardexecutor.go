// Package shardqueue runs generation calls off the caller's path. Calls for
// one journey run in submission order on a single shard; different journeys
// may run in parallel. The shard count bounds how many calls are outstanding
// at once and the queue size bounds how many may wait.
//
// Callers must not Submit concurrently for the same key: per-key order is
// the order in which Submit calls return.
package shardqueue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// shard is one worker and its bounded queue.
type shard struct {
	idx   int
	label string
	queue chan queuedJob
}

// ShardExecutor executes Jobs on shard workers chosen by a stable hash of
// the key, normally a journey id.
type ShardExecutor struct {
	cfg    Config
	log    zerolog.Logger
	shards []*shard

	done    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// NewShardExecutor applies defaults for zero values and starts one worker
// per shard.
func NewShardExecutor(cfg Config) *ShardExecutor {
	if cfg.Shards <= 0 {
		cfg.Shards = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}

	e := &ShardExecutor{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("component", "shardqueue").Logger(),
		shards: make([]*shard, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := range e.shards {
		s := &shard{idx: i, label: strconv.Itoa(i), queue: make(chan queuedJob, cfg.QueueSize)}
		e.shards[i] = s
		e.wg.Add(1)
		go e.work(s)
	}
	return e
}

// Submit queues job on the shard for key. It waits at most EnqueueTimeout
// for room and then returns a *QueueFullError. After Stop it returns
// ErrExecutorClosed. If ctx ends while waiting it returns ctx.Err(); a job
// whose ctx ends after it was queued is skipped instead of run.
func (e *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if e.isStopped() {
		return ErrExecutorClosed
	}
	s := e.shardFor(key)
	qj := queuedJob{ctx: ctx, job: job}

	select {
	case s.queue <- qj:
		submissionsTotal.WithLabelValues(s.label).Inc()
		return nil
	default:
	}

	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()
	select {
	case s.queue <- qj:
		submissionsTotal.WithLabelValues(s.label).Inc()
		return nil
	case <-e.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(s.label).Inc()
		e.log.Warn().Str("key", key).Int("shard", s.idx).Int("queued", len(s.queue)).Msg("shard queue full")
		return &QueueFullError{Shard: s.idx, Length: len(s.queue), Capacity: cap(s.queue)}
	}
}

// Barrier waits until every job submitted for key before it has finished.
func (e *ShardExecutor) Barrier(ctx context.Context, key string) error {
	reached := make(chan struct{})
	marker := JobFunc(func(context.Context) error {
		close(reached)
		return nil
	})
	// The marker runs even if ctx ends while it is queued.
	if err := e.Submit(context.WithoutCancel(ctx), key, marker); err != nil {
		return err
	}
	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new jobs, lets every worker drain what is already queued and
// waits for them. It is idempotent.
func (e *ShardExecutor) Stop() {
	if !e.stopped.CompareAndSwap(false, true) {
		return
	}
	e.log.Debug().Int("shards", len(e.shards)).Msg("stopping executor")
	close(e.done)
	e.wg.Wait()
	e.log.Debug().Msg("executor stopped")
}

// Close stops the executor.
func (e *ShardExecutor) Close() error {
	e.Stop()
	return nil
}

func (e *ShardExecutor) isStopped() bool {
	if e.stopped.Load() {
		return true
	}
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// ------------------------- internals -------------------------

func (e *ShardExecutor) work(s *shard) {
	defer e.wg.Done()
	for {
		select {
		case qj := <-s.queue:
			e.execute(s, qj)
			queueDepth.WithLabelValues(s.label).Set(float64(len(s.queue)))
		case <-e.done:
			e.drain(s)
			return
		}
	}
}

// drain runs what is left in s in FIFO order.
func (e *ShardExecutor) drain(s *shard) {
	n := 0
	for {
		select {
		case qj := <-s.queue:
			e.execute(s, qj)
			n++
		default:
			if n > 0 {
				e.log.Debug().Int("shard", s.idx).Int("drained", n).Msg("shard drained")
			}
			queueDepth.WithLabelValues(s.label).Set(0)
			return
		}
	}
}

// execute runs one job. A job whose context already ended is skipped, so an
// abandoned call never reaches the service.
func (e *ShardExecutor) execute(s *shard, qj queuedJob) {
	if qj.job == nil {
		return
	}
	if err := qj.ctx.Err(); err != nil {
		skippedTotal.WithLabelValues(s.label).Inc()
		e.report(err)
		return
	}
	start := time.Now()
	err := e.run(qj)
	runDuration.WithLabelValues(s.label).Observe(time.Since(start).Seconds())
	e.report(err)
}

func (e *ShardExecutor) run(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("job panicked")
			err = &PanicError{Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

// report hands err to the configured ErrorHandler; a panicking handler is
// logged and otherwise ignored.
func (e *ShardExecutor) report(err error) {
	if err == nil || e.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("error handler panicked")
		}
	}()
	e.cfg.ErrorHandler(err)
}

func (e *ShardExecutor) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return e.shards[h.Sum32()%uint32(len(e.shards))]
}
