package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/grouphub/internal/app/notify"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemGroupStore is an in-memory stand-in for the Mongo group store. It keeps
// the same contract: Transact serializes with other Transact calls, commits
// bump the version and recompute the member count, and ErrNoChange commits
// nothing. Callers always receive deep copies, like documents decoded off the
// wire.
type MemGroupStore struct {
	mu     sync.Mutex
	groups map[primitive.ObjectID]models.Group

	// FailGets makes reads fail with the given error when set.
	FailGets error
}

func NewMemGroupStore(groups ...models.Group) *MemGroupStore {
	s := &MemGroupStore{groups: map[primitive.ObjectID]models.Group{}}
	for _, g := range groups {
		s.groups[g.ID] = copyGroup(g)
	}
	return s
}

func (s *MemGroupStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGets != nil {
		return models.Group{}, s.FailGets
	}
	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, groupstore.ErrNotFound
	}
	return copyGroup(g), nil
}

func (s *MemGroupStore) Transact(ctx context.Context, id primitive.ObjectID, fn func(g *models.Group) error) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGets != nil {
		return models.Group{}, s.FailGets
	}
	cur, ok := s.groups[id]
	if !ok {
		return models.Group{}, groupstore.ErrNotFound
	}

	g := copyGroup(cur)
	if err := fn(&g); err != nil {
		if errors.Is(err, groupstore.ErrNoChange) {
			return g, nil
		}
		return models.Group{}, err
	}

	g.MemberCount = len(g.Members)
	g.Version = cur.Version + 1
	g.UpdatedAt = time.Now().UTC()
	s.groups[id] = copyGroup(g)
	return g, nil
}

// Snapshot returns the committed state of one group for assertions.
func (s *MemGroupStore) Snapshot(id primitive.ObjectID) (models.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, false
	}
	return copyGroup(g), true
}

func copyGroup(g models.Group) models.Group {
	out := g
	out.Admins = append([]string(nil), g.Admins...)
	out.Members = make(map[string]models.Member, len(g.Members))
	for k, v := range g.Members {
		out.Members[k] = v
	}
	out.Requests = make(map[string]models.JoinRequest, len(g.Requests))
	for k, v := range g.Requests {
		if v.ProcessedAt != nil {
			at := *v.ProcessedAt
			v.ProcessedAt = &at
		}
		out.Requests[k] = v
	}
	return out
}

// MemIndex records reverse-index writes; Present reports the latest state
// for a (user, group) pair.
type MemIndex struct {
	mu      sync.Mutex
	entries map[string]bool

	// Fail makes every Set call return this error when set.
	Fail error
}

func NewMemIndex() *MemIndex {
	return &MemIndex{entries: map[string]bool{}}
}

func (i *MemIndex) Set(ctx context.Context, userID string, groupID primitive.ObjectID, present bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Fail != nil {
		return i.Fail
	}
	i.entries[userID+"/"+groupID.Hex()] = present
	return nil
}

func (i *MemIndex) Present(userID string, groupID primitive.ObjectID) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.entries[userID+"/"+groupID.Hex()]
}

// StubLimiter answers every check with Allow and records the keys it saw.
type StubLimiter struct {
	mu    sync.Mutex
	Allow bool
	Keys  []string
}

func (l *StubLimiter) CheckAndRecord(key string, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Keys = append(l.Keys, key)
	return l.Allow
}

// CaptureDispatcher collects emitted events instead of delivering them.
type CaptureDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *CaptureDispatcher) Emit(e notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *CaptureDispatcher) Events() []notify.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Event(nil), d.events...)
}

// ByType filters captured events to one event type.
func (d *CaptureDispatcher) ByType(eventType string) []notify.Event {
	var out []notify.Event
	for _, e := range d.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
