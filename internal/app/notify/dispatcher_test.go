package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/notify"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu     sync.Mutex
	events []notify.Event
	fail   error
}

func (s *recordingSender) Send(_ context.Context, e notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSender) all() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

func TestEmitDelivers(t *testing.T) {
	s := &recordingSender{}
	d := notify.NewDispatcher(zap.NewNop(), 16, s)

	d.Emit(notify.Event{
		Type:        notify.EventMemberJoined,
		RecipientID: "alice",
		GroupID:     primitive.NewObjectID(),
		ActorID:     "bob",
	})
	d.Stop()

	got := s.all()
	if len(got) != 1 {
		t.Fatalf("delivered events: got %d, want 1", len(got))
	}
	e := got[0]
	if e.ID == "" {
		t.Error("event ID not filled in")
	}
	if e.CreatedAt.IsZero() {
		t.Error("event CreatedAt not filled in")
	}
	if e.Type != notify.EventMemberJoined || e.RecipientID != "alice" {
		t.Errorf("event: got %+v", e)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	s := &recordingSender{}
	d := notify.NewDispatcher(zap.NewNop(), 64, s)

	for i := 0; i < 20; i++ {
		d.Emit(notify.Event{Type: notify.EventJoinRequested, RecipientID: "alice"})
	}
	d.Stop()

	if got := len(s.all()); got != 20 {
		t.Errorf("delivered events: got %d, want 20", got)
	}
}

func TestSenderFailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingSender{fail: errors.New("transport down")}
	healthy := &recordingSender{}
	d := notify.NewDispatcher(zap.NewNop(), 16, failing, healthy)

	d.Emit(notify.Event{Type: notify.EventRequestApproved, RecipientID: "bob"})
	d.Stop()

	if got := len(healthy.all()); got != 1 {
		t.Errorf("healthy sender deliveries: got %d, want 1", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := notify.NewDispatcher(zap.NewNop(), 4, &recordingSender{})
	d.Stop()
	d.Stop()
}
