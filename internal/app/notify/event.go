// internal/app/notify/event.go
package notify

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types emitted by the membership manager. Each committed transition
// emits at most a handful of these; idempotent no-op replays emit none.
const (
	EventMemberJoined    = "member_joined"
	EventJoinRequested   = "join_requested"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
	EventMemberRemoved   = "member_removed"
	EventMemberPromoted  = "member_promoted"
)

// Event is one outbound notification. Delivery is fire-and-forget: the
// dispatcher owns it once Emit returns, and a delivery failure never reaches
// the membership operation that produced it.
type Event struct {
	ID          string             `bson:"_id" json:"id"`
	Type        string             `bson:"type" json:"type"`
	RecipientID string             `bson:"recipient_id" json:"recipient_id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	ActorID     string             `bson:"actor_id" json:"actor_id"`
	Payload     map[string]string  `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
