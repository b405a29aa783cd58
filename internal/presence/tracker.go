package presence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/events"
)

// EventStaffStatusUpdated is broadcast to realtime observers on every true
// online/offline transition. It carries no payload; observers re-query.
const EventStaffStatusUpdated = "staff-status-updated"

// StatusStore persists the cached online/offline projection for a staff
// member. The tracker is the only writer of this field.
type StatusStore interface {
	SetStatus(ctx context.Context, staffID string, status domain.StaffStatus) error
}

// Broadcaster fans an event name out to all connected observers,
// fire-and-forget.
type Broadcaster interface {
	Emit(event string)
}

// transition is a true online/offline flip produced by a registry mutation.
type transition struct {
	staffID string
	status  domain.StaffStatus
}

// Tracker is the authoritative registry of live connections per staff
// member. A staff member is online iff it has a non-empty connection set;
// the persisted status column is written through the tracker on true
// transitions only. State lives for the process lifetime: a restart forgets
// presence and relies on clients reconnecting.
type Tracker struct {
	mu     sync.Mutex
	active map[string]map[string]struct{}

	store      StatusStore
	broadcast  Broadcaster
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTracker constructs an empty registry. One instance is shared by every
// connection handler; tests build their own.
func NewTracker(store StatusStore, broadcast Broadcaster, dispatcher events.Dispatcher, logger *zap.Logger) *Tracker {
	return &Tracker{
		active:     make(map[string]map[string]struct{}),
		store:      store,
		broadcast:  broadcast,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleLogin records connID as a live connection for staffID. Only the
// first connection for a staff member flips status to online and broadcasts;
// repeated logins from the same or additional connections are silent.
func (t *Tracker) HandleLogin(ctx context.Context, staffID, connID string) {
	if staffID == "" || connID == "" {
		return
	}

	t.mu.Lock()
	conns, existed := t.active[staffID]
	if !existed {
		conns = make(map[string]struct{})
		t.active[staffID] = conns
	}
	conns[connID] = struct{}{}
	t.mu.Unlock()

	if !existed {
		t.apply(ctx, transition{staffID: staffID, status: domain.StaffStatusOnline})
	}
}

// HandleLogout removes connID from staffID's set. Removing the last
// connection deletes the entry, flips status to offline and broadcasts.
// Unknown pairs are no-ops; transports may redeliver.
func (t *Tracker) HandleLogout(ctx context.Context, staffID, connID string) {
	t.mu.Lock()
	tr := t.remove(staffID, connID)
	t.mu.Unlock()

	if tr != nil {
		t.apply(ctx, *tr)
	}
}

// HandleDisconnect handles a connection dropping without an explicit logout.
// It scans every entry; a connection belongs to at most one staff member
// under normal operation, but the scan stays safe if that is ever violated.
func (t *Tracker) HandleDisconnect(ctx context.Context, connID string) {
	t.mu.Lock()
	var transitions []transition
	for staffID, conns := range t.active {
		if _, ok := conns[connID]; ok {
			if tr := t.remove(staffID, connID); tr != nil {
				transitions = append(transitions, *tr)
			}
		}
	}
	t.mu.Unlock()

	for _, tr := range transitions {
		t.apply(ctx, tr)
	}
}

// Online reports whether staffID has at least one live connection.
func (t *Tracker) Online(staffID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active[staffID]) > 0
}

// Connections reports the number of live connections for staffID.
func (t *Tracker) Connections(staffID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active[staffID])
}

// OnlineStaff returns the ids of all currently online staff members.
func (t *Tracker) OnlineStaff() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.active))
	for staffID := range t.active {
		ids = append(ids, staffID)
	}
	sort.Strings(ids)
	return ids
}

// remove applies the shared empty-check rule. Caller holds the lock.
func (t *Tracker) remove(staffID, connID string) *transition {
	conns, ok := t.active[staffID]
	if !ok {
		return nil
	}
	if _, ok := conns[connID]; !ok {
		return nil
	}

	delete(conns, connID)
	if len(conns) == 0 {
		delete(t.active, staffID)
		return &transition{staffID: staffID, status: domain.StaffStatusOffline}
	}
	return nil
}

// apply persists the cached status and notifies observers, strictly after
// the registry mutation. An observer reacting to the broadcast by re-reading
// presence therefore sees the post-transition state. A failed status write
// leaves the registry as the source of truth, so it is logged rather than
// propagated.
func (t *Tracker) apply(ctx context.Context, tr transition) {
	if t.store != nil {
		if err := t.store.SetStatus(ctx, tr.staffID, tr.status); err != nil {
			t.logger.Warn("persist staff status",
				zap.String("staff_id", tr.staffID),
				zap.String("status", string(tr.status)),
				zap.Error(err),
			)
		}
	}

	if t.dispatcher != nil {
		_ = t.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventStaffStatusChanged,
			Timestamp: time.Now(),
			Payload:   events.StaffStatusChangedPayload{StaffID: tr.staffID, Status: tr.status},
		})
	}

	if t.broadcast != nil {
		t.broadcast.Emit(EventStaffStatusUpdated)
	}
}
