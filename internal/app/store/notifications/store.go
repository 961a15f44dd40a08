// internal/app/store/notifications/store.go
package notifications

import (
	"context"
	"time"

	"github.com/dalemusser/grouphub/internal/app/notify"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the outbound notification outbox: every emitted event is kept in
// the "notifications" collection so recipients can read them in-app and so
// an external delivery worker has a durable record to work from. Inserts are
// keyed by the event ID, which makes redelivery of the same event a no-op.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Send persists the event. Implements notify.Sender.
func (s *Store) Send(ctx context.Context, e notify.Event) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": e.ID},
		bson.M{"$setOnInsert": e},
		options.Update().SetUpsert(true))
	return err
}

// ListByRecipient returns the newest events for a user, most recent first.
func (s *Store) ListByRecipient(ctx context.Context, userID string, limit int64) ([]notify.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	cur, err := s.c.Find(ctx,
		bson.M{"recipient_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []notify.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOlderThan prunes events past their retention window. Returns the
// number of documents removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
