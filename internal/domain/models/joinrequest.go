// internal/domain/models/joinrequest.go
package models

import "time"

// Join request statuses. A request is created pending and resolves to
// exactly one terminal status; it never returns to pending. A later request
// from the same user overwrites the ledger entry with a fresh pending record.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestRejected  = "rejected"
	RequestCancelled = "cancelled"
)

// JoinRequest is one entry in Group.Requests, keyed by the requesting user.
//
// Older documents were written without a status field; absence of status
// means pending. The group store normalizes those at decode time, so code
// above the store only ever sees Status filled in.
type JoinRequest struct {
	Status      string     `bson:"status" json:"status"`
	RequestedAt time.Time  `bson:"requested_at" json:"requested_at"`
	ProcessedAt *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	ProcessedBy string     `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
}

// Terminal reports whether the request has reached a final status.
func (r JoinRequest) Terminal() bool {
	switch r.Status {
	case RequestAccepted, RequestRejected, RequestCancelled:
		return true
	}
	return false
}
