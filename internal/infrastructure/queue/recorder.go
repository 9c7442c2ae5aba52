package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/minimart/pos-api/internal/api/metrics"
	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditRecorder persists login attempts asynchronously through a fixed set of
// workers, sharded by username so one account's attempts stay ordered.
type AuditRecorder struct {
	workers []chan domain.LoginAttempt
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditRecorder creates an AuditRecorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditRecorder(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &AuditRecorder{
		workers: make([]chan domain.LoginAttempt, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan domain.LoginAttempt, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *AuditRecorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record sends an attempt to the worker responsible for its username. When
// that worker's buffer is full the attempt is dropped rather than blocking
// the login path.
func (r *AuditRecorder) Record(attempt domain.LoginAttempt) {
	idx := r.shardIndex(attempt.Username)
	select {
	case r.workers[idx] <- attempt:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(r.workers[idx])))
	default:
		r.log.Warn().Str("username", attempt.Username).Msg("audit queue full, attempt dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (r *AuditRecorder) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(r.workers)
}

func (r *AuditRecorder) runWorker(ctx context.Context, id int, ch <-chan domain.LoginAttempt) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case attempt, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := r.repo.Insert(ctx, &attempt); err != nil {
				r.log.Error().Err(err).
					Str("username", attempt.Username).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
