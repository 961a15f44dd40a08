// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists group documents in the "groups" collection.
//
// All membership mutations go through Transact, which gives the caller an
// atomic read-modify-write on a single group document: the callback sees the
// latest committed value and the replace is guarded by the document version,
// so two racing writers cannot both commit against the same snapshot.
type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound           = errors.New("group not found")
	ErrConflict           = errors.New("group was modified concurrently")
	ErrDuplicateGroupName = errors.New("a group with this name already exists")

	// ErrNoChange may be returned from a Transact callback to commit nothing
	// and report success with the record as read. Used for idempotent no-op
	// replays (e.g. approving an already-accepted request).
	ErrNoChange = errors.New("no change")
)

// transactAttempts bounds the optimistic-lock retry loop before the
// conflict is surfaced to the caller.
const transactAttempts = 3

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create inserts a new group with the creator as its sole admin member.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Admins = []string{g.CreatorID}
	g.Members = map[string]models.Member{
		g.CreatorID: {Role: models.RoleAdmin, JoinedAt: now},
	}
	g.MemberCount = 1
	g.Requests = map[string]models.JoinRequest{}
	g.Version = 1
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads one group. Legacy join-request records are normalized before
// the document is returned; callers never see the pre-status schema.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	normalize(&g)
	return g, nil
}

// Transact runs fn against the latest committed state of the group and
// commits the mutated record atomically with respect to other Transact calls
// on the same group. The commit is a full-document replace filtered on the
// version fn observed; a lost race re-reads and re-runs fn, up to
// transactAttempts times, then surfaces ErrConflict.
//
// An error returned by fn aborts without writing and is passed through
// unchanged, except ErrNoChange which commits nothing and returns the record
// as read with a nil error.
func (s *Store) Transact(ctx context.Context, id primitive.ObjectID, fn func(g *models.Group) error) (models.Group, error) {
	for attempt := 0; attempt < transactAttempts; attempt++ {
		if attempt > 0 {
			// Jittered backoff before re-reading; keeps two retrying
			// writers from colliding again in lock step.
			select {
			case <-ctx.Done():
				return models.Group{}, ctx.Err()
			case <-time.After(time.Duration(10+rand.Intn(40)) * time.Millisecond * time.Duration(attempt)):
			}
		}

		var g models.Group
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
			if err == mongo.ErrNoDocuments {
				return models.Group{}, ErrNotFound
			}
			return models.Group{}, err
		}
		normalize(&g)

		prev := g.Version
		if err := fn(&g); err != nil {
			if errors.Is(err, ErrNoChange) {
				return g, nil
			}
			return models.Group{}, err
		}

		g.MemberCount = len(g.Members)
		g.Version = prev + 1
		g.UpdatedAt = time.Now().UTC()

		res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id, "version": prev}, g)
		if err != nil {
			return models.Group{}, err
		}
		if res.MatchedCount == 1 {
			return g, nil
		}
		// Version moved underneath us; loop and re-read.
	}
	return models.Group{}, ErrConflict
}

// Delete removes a group by ID. Returns the number of documents deleted
// (0 or 1). Callers are responsible for purging user_groups index entries.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ForEach streams every group through fn. Used by the index repair worker;
// fn returning an error stops the scan.
func (s *Store) ForEach(ctx context.Context, fn func(g models.Group) error) error {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var g models.Group
		if err := cur.Decode(&g); err != nil {
			return err
		}
		normalize(&g)
		if err := fn(g); err != nil {
			return err
		}
	}
	return cur.Err()
}

// normalize reconciles the two historical join-request schemas and makes the
// embedded maps safe to use. Records written before the status field existed
// carry no status; absence means pending. Writes always go out in the
// canonical shape, so normalization only ever happens here, on the way in.
func normalize(g *models.Group) {
	if g.Members == nil {
		g.Members = map[string]models.Member{}
	}
	if g.Requests == nil {
		g.Requests = map[string]models.JoinRequest{}
	}
	for userID, req := range g.Requests {
		if req.Status == "" {
			req.Status = models.RequestPending
			g.Requests[userID] = req
		}
	}
}
