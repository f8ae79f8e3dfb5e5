package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/api/metrics"
	"github.com/drowwn/weNote/internal/collab"
)

const (
	defaultBuffer        = 1024
	defaultPruneInterval = 5 * time.Minute
)

// Handler applies one event to the collaboration state and returns the
// messages it produced. It is only ever called from the dispatcher goroutine.
type Handler interface {
	Handle(ev collab.Event) ([]collab.Delivery, error)
	Sessions() int
	Rooms() int
}

// Sender hands a message to a connection without blocking. It reports false
// when the message could not be queued.
type Sender interface {
	Send(connID string, msg collab.Message) bool
}

// Dispatcher serialises every collaboration event through a single goroutine.
// Events are applied in the order they were enqueued, each one completely
// before the next, so the handler needs no locking of its own.
type Dispatcher struct {
	events        chan collab.Event
	handler       Handler
	sender        Sender
	pruneInterval time.Duration
	log           zerolog.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with an event buffer of bufferSize.
// Non-positive arguments fall back to defaults.
func NewDispatcher(bufferSize int, handler Handler, sender Sender, pruneInterval time.Duration, log zerolog.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	if pruneInterval <= 0 {
		pruneInterval = defaultPruneInterval
	}
	return &Dispatcher{
		events:        make(chan collab.Event, bufferSize),
		handler:       handler,
		sender:        sender,
		pruneInterval: pruneInterval,
		log:           log,
		done:          make(chan struct{}),
	}
}

// Start launches the dispatcher goroutine. It stops when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go d.run(ctx)
}

// Enqueue submits an event. It blocks while the buffer is full and returns
// false once the dispatcher has stopped.
func (d *Dispatcher) Enqueue(ev collab.Event) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.events <- ev:
		metrics.CollabQueueDepth.Set(float64(len(d.events)))
		return true
	case <-d.done:
		return false
	}
}

// Wait blocks until the dispatcher goroutine has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.done)

	ticker := time.NewTicker(d.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info().Int("pending", len(d.events)).Msg("collaboration dispatcher stopped")
			return
		case <-ticker.C:
			before := d.handler.Rooms()
			d.apply(collab.Event{Kind: collab.KindPrune})
			if pruned := before - d.handler.Rooms(); pruned > 0 {
				metrics.CollabRoomsPrunedTotal.Add(float64(pruned))
				d.log.Debug().Int("pruned", pruned).Msg("empty rooms pruned")
			}
		case ev := <-d.events:
			metrics.CollabQueueDepth.Set(float64(len(d.events)))
			d.apply(ev)
		}
	}
}

// apply runs a single event and fans out its deliveries. A panicking handler
// loses that event only.
func (d *Dispatcher) apply(ev collab.Event) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("kind", string(ev.Kind)).
				Str("conn_id", ev.ConnID).
				Interface("panic", r).
				Msg("collaboration event panicked")
		}
	}()

	out, err := d.handler.Handle(ev)
	if err != nil {
		metrics.CollabProtocolErrorsTotal.WithLabelValues(Reason(err)).Inc()
		d.log.Debug().Err(err).
			Str("kind", string(ev.Kind)).
			Str("conn_id", ev.ConnID).
			Msg("collaboration event dropped")
		return
	}

	for _, del := range out {
		if d.sender.Send(del.To, del.Msg) {
			metrics.CollabMessagesSentTotal.WithLabelValues(del.Msg.MessageType()).Inc()
		} else {
			metrics.CollabDeliveriesDroppedTotal.Inc()
		}
	}

	metrics.CollabEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	metrics.CollabEventDuration.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	metrics.CollabActiveSessions.Set(float64(d.handler.Sessions()))
	metrics.CollabRooms.Set(float64(d.handler.Rooms()))
}

// Reason maps a protocol error to a metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, collab.ErrUnknownEvent):
		return "unknown_event"
	case errors.Is(err, collab.ErrMissingNoteID):
		return "missing_note_id"
	case errors.Is(err, collab.ErrMissingUser):
		return "missing_user"
	case errors.Is(err, collab.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, collab.ErrInvalidPayload):
		return "invalid_payload"
	default:
		return "other"
	}
}
