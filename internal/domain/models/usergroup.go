// internal/domain/models/usergroup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserGroup is one entry in the user_groups reverse index: the user is
// currently a member of the group. Exactly one document per (user, group).
//
// The index exists for cheap "my groups" queries. It is not authoritative;
// Group.Members is. Every entry must be derivable from some group document,
// and the index repair worker rebuilds it when the two disagree.
type UserGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
