package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/api/metrics"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher routes verification emails to a fixed set of workers using
// consistent hashing on the recipient address, so retries and re-issues for
// one recipient deliver in order. Delivery failure is logged, never
// propagated: registration must not fail on email trouble.
type MailDispatcher struct {
	workers []chan ports.MailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.MailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a mail job to the worker owning its recipient shard.
// Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(job ports.MailJob) {
	d.workers[d.shardIndex(job.To)] <- job
}

func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, job); err != nil {
				metrics.EmailsTotal.WithLabelValues("failed").Inc()
				d.log.Warn().Err(err).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("verification email delivery failed")
				continue
			}
			metrics.EmailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
