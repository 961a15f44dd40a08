// internal/app/notify/dispatcher.go
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers a single event to one transport (log, outbox, NATS, ...).
type Sender interface {
	Send(ctx context.Context, e Event) error
}

// sendTimeout bounds one sender invocation so a stuck transport cannot wedge
// the dispatch loop.
const sendTimeout = 10 * time.Second

// Dispatcher queues events and fans them out to its senders on a background
// goroutine. Emit never blocks the caller: if the queue is full the event is
// dropped and logged. Sender failures are logged and never propagate.
type Dispatcher struct {
	log     *zap.Logger
	senders []Sender
	queue   chan Event
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDispatcher creates a dispatcher with the given queue capacity and starts
// its delivery loop. Call Stop during shutdown to drain the queue.
func NewDispatcher(logger *zap.Logger, buffer int, senders ...Sender) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		log:     logger,
		senders: senders,
		queue:   make(chan Event, buffer),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Emit enqueues an event for delivery. The event's ID and CreatedAt are
// filled in if the caller left them empty.
func (d *Dispatcher) Emit(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	select {
	case d.queue <- e:
	default:
		d.log.Warn("notification queue full, dropping event",
			zap.String("event_id", e.ID),
			zap.String("type", e.Type),
			zap.String("recipient_id", e.RecipientID))
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Event) {
	for _, s := range d.senders {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := s.Send(ctx, e); err != nil {
			d.log.Error("notification delivery failed",
				zap.Error(err),
				zap.String("event_id", e.ID),
				zap.String("type", e.Type),
				zap.String("recipient_id", e.RecipientID))
		}
		cancel()
	}
}

// LogSender writes every event to the structured log. It is always wired in
// so transitions remain observable even with no external transport
// configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, e Event) error {
	s.Log.Info("notification",
		zap.String("event_id", e.ID),
		zap.String("type", e.Type),
		zap.String("recipient_id", e.RecipientID),
		zap.String("group_id", e.GroupID.Hex()),
		zap.String("actor_id", e.ActorID))
	return nil
}
