// internal/app/membership/manager.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/grouphub/internal/app/notify"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GroupStore is the transactional storage the manager mutates groups
// through. Transact must run fn against the latest committed record and
// commit atomically with respect to other Transact calls on the same group;
// fn may return groupstore.ErrNoChange to commit nothing and succeed.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	Transact(ctx context.Context, id primitive.ObjectID, fn func(g *models.Group) error) (models.Group, error)
}

// GroupIndex mirrors membership into the per-user reverse index. Set is
// idempotent; a failure here never fails the operation that committed the
// membership change (the repair worker converges the index later).
type GroupIndex interface {
	Set(ctx context.Context, userID string, groupID primitive.ObjectID, present bool) error
}

// RateLimiter gates join-request creation with a cooldown window.
type RateLimiter interface {
	CheckAndRecord(key string, window time.Duration) bool
}

// Dispatcher accepts outbound notification events, fire-and-forget.
type Dispatcher interface {
	Emit(e notify.Event)
}

// Manager owns the membership state machine. Every mutating operation is
// exactly one Transact call: preconditions are evaluated inside the callback
// against the freshly read record, so racing operations serialize through
// the store and the loser lands on an idempotent no-op or a terminal
// validation error, never on a double mutation.
type Manager struct {
	store      GroupStore
	index      GroupIndex
	limiter    RateLimiter
	dispatcher Dispatcher
	log        *zap.Logger

	// cooldown applied per (group, user) between join requests
	requestCooldown time.Duration
}

// NewManager wires the manager's collaborators.
func NewManager(store GroupStore, index GroupIndex, limiter RateLimiter, dispatcher Dispatcher, logger *zap.Logger, requestCooldown time.Duration) *Manager {
	if requestCooldown <= 0 {
		requestCooldown = time.Hour
	}
	return &Manager{
		store:           store,
		index:           index,
		limiter:         limiter,
		dispatcher:      dispatcher,
		log:             logger,
		requestCooldown: requestCooldown,
	}
}

// JoinPublic adds the user to a public group immediately.
// Already a member: success no-op.
func (m *Manager) JoinPublic(ctx context.Context, groupID primitive.ObjectID, userID string) (models.Group, error) {
	var joined bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if g.IsMember(userID) {
			return groupstore.ErrNoChange
		}
		if g.Privacy != models.PrivacyPublic {
			return fmt.Errorf("%w: group %q requires a join request", ErrInvalidState, g.Privacy)
		}
		now := time.Now().UTC()
		g.Members[userID] = models.Member{Role: models.RoleMember, JoinedAt: now}
		// A stale pending request (e.g. the group was private when it was
		// filed) is resolved by the join; a member may never also be pending.
		if req, ok := g.PendingRequest(userID); ok {
			req.Status = models.RequestAccepted
			req.ProcessedAt = &now
			req.ProcessedBy = userID
			g.Requests[userID] = req
		}
		joined = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if joined {
		m.setIndex(ctx, userID, groupID, true)
		m.emitToAdmins(&g, notify.EventMemberJoined, userID, userID)
	}
	return g, nil
}

// RequestJoin files a join request for a private or restricted group.
// An open request already exists: success no-op. Creation of a new request
// is gated by the cooldown limiter.
func (m *Manager) RequestJoin(ctx context.Context, groupID primitive.ObjectID, userID string) (models.Group, error) {
	// Cheap precondition pass on a plain read; the transaction below
	// re-validates everything against fresh state before committing.
	g0, err := m.store.GetByID(ctx, groupID)
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if g0.IsMember(userID) {
		return models.Group{}, fmt.Errorf("%w: already a member", ErrInvalidState)
	}
	if g0.Privacy == models.PrivacyPublic {
		return models.Group{}, fmt.Errorf("%w: public groups are joined directly", ErrInvalidState)
	}
	if _, open := g0.PendingRequest(userID); open {
		return g0, nil
	}

	if !m.limiter.CheckAndRecord(requestKey(groupID, userID), m.requestCooldown) {
		return models.Group{}, ErrRateLimited
	}

	var requested bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if g.IsMember(userID) {
			// Approved between the read above and now; the request replay
			// resolves to a no-op.
			return groupstore.ErrNoChange
		}
		if g.Privacy == models.PrivacyPublic {
			return fmt.Errorf("%w: public groups are joined directly", ErrInvalidState)
		}
		if _, open := g.PendingRequest(userID); open {
			return groupstore.ErrNoChange
		}
		// A terminal record for this user is superseded by the fresh request.
		g.Requests[userID] = models.JoinRequest{
			Status:      models.RequestPending,
			RequestedAt: time.Now().UTC(),
		}
		requested = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if requested {
		m.emitToAdmins(&g, notify.EventJoinRequested, userID, userID)
	}
	return g, nil
}

// CancelRequest withdraws the user's own pending request.
// Already cancelled or rejected: success no-op. Nothing is emitted to admins.
func (m *Manager) CancelRequest(ctx context.Context, groupID primitive.ObjectID, userID, actorID string) (models.Group, error) {
	if actorID != userID {
		return models.Group{}, fmt.Errorf("%w: only the requester can cancel", ErrNotAuthorized)
	}
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		req, ok := g.Requests[userID]
		if !ok {
			return fmt.Errorf("%w: no join request", ErrInvalidState)
		}
		switch req.Status {
		case models.RequestCancelled, models.RequestRejected:
			return groupstore.ErrNoChange
		case models.RequestAccepted:
			return fmt.Errorf("%w: request was already approved", ErrInvalidState)
		}
		now := time.Now().UTC()
		req.Status = models.RequestCancelled
		req.ProcessedAt = &now
		req.ProcessedBy = actorID
		g.Requests[userID] = req
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	return g, nil
}

// Approve turns the user's pending request into membership. Admin only.
// Replay on an already-accepted request: success no-op, the member count is
// not touched again.
func (m *Manager) Approve(ctx context.Context, groupID primitive.ObjectID, userID, actorID string) (models.Group, error) {
	var approved bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if !g.IsAdmin(actorID) {
			return fmt.Errorf("%w: approving requires admin", ErrNotAuthorized)
		}
		req, ok := g.Requests[userID]
		if !ok {
			return fmt.Errorf("%w: no join request", ErrInvalidState)
		}
		switch req.Status {
		case models.RequestAccepted:
			if g.IsMember(userID) {
				return groupstore.ErrNoChange
			}
			return fmt.Errorf("%w: request accepted but user is no longer a member", ErrInvalidState)
		case models.RequestCancelled, models.RequestRejected:
			return fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
		}
		now := time.Now().UTC()
		req.Status = models.RequestAccepted
		req.ProcessedAt = &now
		req.ProcessedBy = actorID
		g.Requests[userID] = req
		g.Members[userID] = models.Member{Role: models.RoleMember, JoinedAt: now}
		approved = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if approved {
		m.setIndex(ctx, userID, groupID, true)
		m.emit(&g, notify.EventRequestApproved, userID, actorID)
	}
	return g, nil
}

// Reject resolves the user's pending request without granting membership.
// Admin only. Replay on an already-rejected request: success no-op.
func (m *Manager) Reject(ctx context.Context, groupID primitive.ObjectID, userID, actorID string) (models.Group, error) {
	var rejected bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if !g.IsAdmin(actorID) {
			return fmt.Errorf("%w: rejecting requires admin", ErrNotAuthorized)
		}
		req, ok := g.Requests[userID]
		if !ok {
			return fmt.Errorf("%w: no join request", ErrInvalidState)
		}
		switch req.Status {
		case models.RequestRejected:
			return groupstore.ErrNoChange
		case models.RequestAccepted, models.RequestCancelled:
			return fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
		}
		now := time.Now().UTC()
		req.Status = models.RequestRejected
		req.ProcessedAt = &now
		req.ProcessedBy = actorID
		g.Requests[userID] = req
		rejected = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if rejected {
		m.emit(&g, notify.EventRequestRejected, userID, actorID)
	}
	return g, nil
}

// Leave removes the user's own membership. The sole admin cannot leave.
// Not a member: success no-op.
func (m *Manager) Leave(ctx context.Context, groupID primitive.ObjectID, userID string) (models.Group, error) {
	var left bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if !g.IsMember(userID) {
			return groupstore.ErrNoChange
		}
		if g.IsSoleAdmin(userID) {
			return ErrLastAdminProtected
		}
		delete(g.Members, userID)
		g.Admins = removeID(g.Admins, userID)
		left = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if left {
		m.setIndex(ctx, userID, groupID, false)
	}
	return g, nil
}

// RemoveMember removes another user's membership. Admin only; the sole admin
// cannot be removed. Target not a member: success no-op.
func (m *Manager) RemoveMember(ctx context.Context, groupID primitive.ObjectID, userID, actorID string) (models.Group, error) {
	var removed bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if !g.IsAdmin(actorID) {
			return fmt.Errorf("%w: removing members requires admin", ErrNotAuthorized)
		}
		if !g.IsMember(userID) {
			return groupstore.ErrNoChange
		}
		if g.IsSoleAdmin(userID) {
			return ErrLastAdminProtected
		}
		delete(g.Members, userID)
		g.Admins = removeID(g.Admins, userID)
		removed = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if removed {
		m.setIndex(ctx, userID, groupID, false)
		m.emit(&g, notify.EventMemberRemoved, userID, actorID)
	}
	return g, nil
}

// Promote raises a member to admin. Admin only. Already an admin: success
// no-op.
func (m *Manager) Promote(ctx context.Context, groupID primitive.ObjectID, userID, actorID string) (models.Group, error) {
	var promoted bool
	g, err := m.store.Transact(ctx, groupID, func(g *models.Group) error {
		if !g.IsAdmin(actorID) {
			return fmt.Errorf("%w: promoting requires admin", ErrNotAuthorized)
		}
		member, ok := g.Members[userID]
		if !ok {
			return fmt.Errorf("%w: user is not a member", ErrInvalidState)
		}
		if g.IsAdmin(userID) {
			return groupstore.ErrNoChange
		}
		member.Role = models.RoleAdmin
		g.Members[userID] = member
		g.Admins = append(g.Admins, userID)
		promoted = true
		return nil
	})
	if err != nil {
		return models.Group{}, m.mapErr(err)
	}
	if promoted {
		m.emit(&g, notify.EventMemberPromoted, userID, actorID)
	}
	return g, nil
}

// MembershipState reports the user's current state in the group.
func (m *Manager) MembershipState(ctx context.Context, groupID primitive.ObjectID, userID string) (State, error) {
	g, err := m.store.GetByID(ctx, groupID)
	if err != nil {
		return State{}, m.mapErr(err)
	}
	return stateOf(&g, userID), nil
}

// PendingRequests lists the group's open join requests, oldest first.
// Admin only.
func (m *Manager) PendingRequests(ctx context.Context, groupID primitive.ObjectID, actorID string) ([]PendingRequest, error) {
	g, err := m.store.GetByID(ctx, groupID)
	if err != nil {
		return nil, m.mapErr(err)
	}
	if !g.IsAdmin(actorID) {
		return nil, fmt.Errorf("%w: listing requests requires admin", ErrNotAuthorized)
	}
	pending := make([]PendingRequest, 0)
	for userID, req := range g.Requests {
		if req.Status == models.RequestPending {
			pending = append(pending, PendingRequest{UserID: userID, RequestedAt: req.RequestedAt})
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].RequestedAt.Equal(pending[j].RequestedAt) {
			return pending[i].UserID < pending[j].UserID
		}
		return pending[i].RequestedAt.Before(pending[j].RequestedAt)
	})
	return pending, nil
}

/* -------------------------------------------------------------------------- */
/* helpers                                                                    */
/* -------------------------------------------------------------------------- */

// mapErr translates store errors into the taxonomy; domain errors pass
// through untouched and anything else is a storage transport failure.
func (m *Manager) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainErr(err):
		return err
	case errors.Is(err, groupstore.ErrNotFound):
		return ErrGroupNotFound
	case errors.Is(err, groupstore.ErrConflict):
		return ErrConcurrentModification
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// setIndex mirrors a committed membership change into the reverse index.
// The mutation has already committed, so a failure here is logged and left
// for the repair worker; it never turns a committed operation into an error.
func (m *Manager) setIndex(ctx context.Context, userID string, groupID primitive.ObjectID, present bool) {
	if err := m.index.Set(ctx, userID, groupID, present); err != nil {
		m.log.Error("user-group index update failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("group_id", groupID.Hex()),
			zap.Bool("present", present))
	}
}

func (m *Manager) emit(g *models.Group, eventType, recipientID, actorID string) {
	m.dispatcher.Emit(notify.Event{
		Type:        eventType,
		RecipientID: recipientID,
		GroupID:     g.ID,
		ActorID:     actorID,
		Payload:     map[string]string{"group_name": g.Name},
	})
}

// emitToAdmins sends one event per admin, skipping the subject user so
// nobody is notified about their own action.
func (m *Manager) emitToAdmins(g *models.Group, eventType, subjectID, actorID string) {
	for _, adminID := range g.Admins {
		if adminID == subjectID {
			continue
		}
		m.dispatcher.Emit(notify.Event{
			Type:        eventType,
			RecipientID: adminID,
			GroupID:     g.ID,
			ActorID:     actorID,
			Payload: map[string]string{
				"group_name": g.Name,
				"user_id":    subjectID,
			},
		})
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func requestKey(groupID primitive.ObjectID, userID string) string {
	return "join_request:" + groupID.Hex() + ":" + userID
}
