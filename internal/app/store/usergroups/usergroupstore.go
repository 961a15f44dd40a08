// internal/app/store/usergroups/usergroupstore.go
package usergroupstore

import (
	"context"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store maintains the user_groups reverse index: one document per
// (user, group) the user currently belongs to.
//
// The index mirrors Group.Members and is not authoritative. Set is a pure
// set-membership assertion (upsert or delete), so it is idempotent and safe
// to retry to convergence after the group transaction has committed.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_groups")}
}

// Set asserts index membership: present=true upserts the entry,
// present=false removes it. Both directions are no-ops when the index
// already agrees.
func (s *Store) Set(ctx context.Context, userID string, groupID primitive.ObjectID, present bool) error {
	filter := bson.M{"user_id": userID, "group_id": groupID}
	if !present {
		_, err := s.c.DeleteOne(ctx, filter)
		return err
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"group_id":   groupID,
			"created_at": time.Now().UTC(),
		},
	}
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && wafflemongo.IsDup(err) {
		// A concurrent upsert won; the entry exists, which is what we wanted.
		return nil
	}
	return err
}

// ListByUser returns the IDs of all groups the user is indexed into.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.UserGroup
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.GroupID)
	}
	return ids, nil
}

// CountByUser returns how many groups the user is indexed into.
func (s *Store) CountByUser(ctx context.Context, userID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

// DeleteByGroup purges every index entry for a group. Called when a group is
// deleted so no user keeps a dangling reference.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// MembersByGroup returns the set of user IDs the index currently holds for a
// group. Used by the repair worker to diff the index against the
// authoritative members map.
func (s *Store) MembersByGroup(ctx context.Context, groupID primitive.ObjectID) (map[string]bool, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make(map[string]bool)
	for cur.Next(ctx) {
		var e models.UserGroup
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		users[e.UserID] = true
	}
	return users, cur.Err()
}
