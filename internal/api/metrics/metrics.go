// Package metrics defines and registers all custom Prometheus metrics for the
// weNote API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wenote"

// ── Collaboration metrics ─────────────────────────────────────────────────────

// CollabEventsTotal counts events applied by the collaboration dispatcher.
// Label:
//   - kind: the event kind (e.g. "openNote", "contentChange", "disconnect")
var CollabEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collab_events_total",
		Help:      "Total number of collaboration events applied.",
	},
	[]string{"kind"},
)

// CollabProtocolErrorsTotal counts events dropped as protocol errors.
// Label:
//   - reason: short description of the failure (e.g. "not_in_room", "missing_note_id", "forbidden")
var CollabProtocolErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collab_protocol_errors_total",
		Help:      "Total number of inbound collaboration events dropped as protocol errors.",
	},
	[]string{"reason"},
)

// CollabMessagesSentTotal counts outbound frames handed to a connection.
// Label:
//   - type: "presenceUpdate" or "contentChange"
var CollabMessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collab_messages_sent_total",
		Help:      "Total number of outbound collaboration messages queued for delivery.",
	},
	[]string{"type"},
)

// CollabDeliveriesDroppedTotal counts outbound frames discarded because the
// recipient was gone or its send buffer was full.
var CollabDeliveriesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collab_deliveries_dropped_total",
		Help:      "Total number of outbound collaboration messages that could not be delivered.",
	},
)

// CollabQueueDepth tracks the number of events waiting for the dispatcher.
var CollabQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collab_queue_depth",
		Help:      "Current number of events pending in the collaboration dispatcher.",
	},
)

// CollabActiveSessions tracks connected sessions.
var CollabActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collab_active_sessions",
		Help:      "Current number of connected collaboration sessions.",
	},
)

// CollabRooms tracks room entries, including empty rooms awaiting a prune.
var CollabRooms = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collab_rooms",
		Help:      "Current number of room entries in the room directory.",
	},
)

// CollabRoomsPrunedTotal counts empty rooms removed by the periodic sweep.
var CollabRoomsPrunedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collab_rooms_pruned_total",
		Help:      "Total number of empty room entries pruned.",
	},
)

// CollabEventDuration measures how long a single event takes to apply and fan out.
// Label:
//   - kind: the event kind
var CollabEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "collab_event_duration_seconds",
		Help:      "Duration of a collaboration event from dequeue to fan-out.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	},
	[]string{"kind"},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NotesCreatedTotal counts newly created notes.
var NotesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created.",
	},
)

// NotesSharedTotal counts successful access grants.
var NotesSharedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_shared_total",
		Help:      "Total number of access grants on notes.",
	},
)

// NotesRevokedTotal counts access revocations.
// Label:
//   - outcome: "updated" (others still hold access) or "deleted" (last member left)
var NotesRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_revoked_total",
		Help:      "Total number of access revocations, by outcome.",
	},
	[]string{"outcome"},
)
