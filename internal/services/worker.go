package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Pool bounds the number of reviews that extract and call the provider at the
// same time. Submit is synchronous from the caller's point of view.
type Pool interface {
	Start(ctx context.Context)
	Stop()
	Submit(ctx context.Context, job ReviewJob) (string, error)
}

type queuedJob struct {
	ctx    context.Context
	job    ReviewJob
	result chan ReviewResult
}

type pool struct {
	reviewer    ReviewerService
	jobQueue    chan queuedJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopped     chan struct{}
	stopOnce    sync.Once
}

func NewPool(reviewer ReviewerService, concurrency, queueSize int) Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	return &pool{
		reviewer:    reviewer,
		jobQueue:    make(chan queuedJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Start implements Pool.
func (p *pool) Start(ctx context.Context) {
	log.Info().Int("workers", p.concurrency).Msg("🚀 Starting review pool")

	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.processJobs(ctx, i+1)
	}
}

// Stop implements Pool. Jobs still waiting in the queue are answered with
// ErrPoolStopped.
func (p *pool) Stop() {
	p.stopOnce.Do(func() {
		log.Info().Msg("🛑 Stopping review pool...")
		close(p.stopChan)
		p.wg.Wait()

		for {
			select {
			case q := <-p.jobQueue:
				q.result <- ReviewResult{Err: ErrPoolStopped}
			default:
				close(p.stopped)
				log.Info().Msg("✅ Review pool stopped")
				return
			}
		}
	})
}

// Submit implements Pool. It never waits for queue space: a full queue
// returns ErrBusy immediately.
func (p *pool) Submit(ctx context.Context, job ReviewJob) (string, error) {
	select {
	case <-p.stopChan:
		return "", ErrPoolStopped
	default:
	}

	q := queuedJob{
		ctx:    ctx,
		job:    job,
		result: make(chan ReviewResult, 1),
	}

	select {
	case p.jobQueue <- q:
	default:
		log.Warn().Stringer("job", job).Msg("⚠️ Review queue full, rejecting job")
		return "", ErrBusy
	}

	return p.await(ctx, q)
}

// await waits for the job's result. A job that slipped into the queue after
// Stop drained it has nobody left to answer, so it fails with ErrPoolStopped.
func (p *pool) await(ctx context.Context, q queuedJob) (string, error) {
	select {
	case res := <-q.result:
		return res.Feedback, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.stopped:
		select {
		case res := <-q.result:
			return res.Feedback, res.Err
		default:
			return "", ErrPoolStopped
		}
	}
}

func (p *pool) processJobs(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			log.Debug().Int("worker", workerID).Msg("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case q := <-p.jobQueue:
			// The submitter may have given up while the job was queued.
			if err := q.ctx.Err(); err != nil {
				q.result <- ReviewResult{Err: err}
				continue
			}

			log.Debug().Int("worker", workerID).Stringer("job", q.job).Msg("👷 Processing review")
			feedback, err := p.reviewer.Review(q.ctx, q.job.Upload)
			if err != nil {
				log.Error().Err(err).Int("worker", workerID).Stringer("job", q.job).Msg("❌ Review failed")
			}
			q.result <- ReviewResult{Feedback: feedback, Err: err}
		}
	}
}
