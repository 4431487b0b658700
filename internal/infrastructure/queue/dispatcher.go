package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api/metrics"
	"github.com/goplay/staff-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Deliverer hands a password-reset notice to its recipient.
type Deliverer interface {
	Deliver(ctx context.Context, notice ports.PasswordResetNotice) error
}

// LogDeliverer "delivers" notices by writing them to the log. It stands in
// for a mail gateway.
type LogDeliverer struct {
	log zerolog.Logger
}

func NewLogDeliverer(log zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(_ context.Context, notice ports.PasswordResetNotice) error {
	d.log.Info().
		Str("email", notice.Email).
		Msgf("New password for %s: %s", notice.Email, notice.NewPassword)
	return nil
}

// Dispatcher routes password-reset notices to a fixed set of workers using
// consistent hashing on the email, so notices for one account are delivered
// in the order they were issued.
type Dispatcher struct {
	workers   []chan ports.PasswordResetNotice
	deliverer Deliverer
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, deliverer Deliverer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.PasswordResetNotice, numWorkers),
		deliverer: deliverer,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PasswordResetNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// NotifyPasswordReset implements ports.PasswordResetNotifier. A full shard
// drops the notice rather than blocking the request.
func (d *Dispatcher) NotifyPasswordReset(notice ports.PasswordResetNotice) {
	select {
	case d.workers[d.shardIndex(notice.Email)] <- notice:
	default:
		metrics.ResetNoticesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("email", notice.Email).Msg("reset notice queue full, notice dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PasswordResetNotice) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			if err := d.deliverer.Deliver(ctx, notice); err != nil {
				metrics.ResetNoticesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("email", notice.Email).
					Int("worker_id", id).
					Msg("reset notice delivery failed")
				continue
			}
			metrics.ResetNoticesTotal.WithLabelValues("delivered").Inc()
		}
	}
}
