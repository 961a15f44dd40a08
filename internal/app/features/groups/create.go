// internal/app/features/groups/create.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/grouphub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/grouphub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Privacy     string `json:"privacy"`
}

// HandleCreateGroup creates a group with the caller as its sole admin
// member.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid JSON body")
		return
	}

	name := htmlsanitize.PlainText(req.Name)
	if name == "" {
		h.writeBadRequest(w, "name is required")
		return
	}
	switch req.Privacy {
	case models.PrivacyPublic, models.PrivacyPrivate, models.PrivacyRestricted:
	case "":
		req.Privacy = models.PrivacyPublic
	default:
		h.writeBadRequest(w, "privacy must be public, private, or restricted")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.Create(ctx, models.Group{
		Name:        name,
		Description: htmlsanitize.Sanitize(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Privacy:     req.Privacy,
		CreatorID:   callerID,
	})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	// Seed the creator's index entry; the repair worker covers a miss.
	if err := h.UserGroups.Set(ctx, callerID, g.ID, true); err != nil {
		h.Log.Error("creator index entry failed",
			zap.Error(err),
			zap.String("group_id", g.ID.Hex()),
			zap.String("user_id", callerID))
	}

	h.writeData(w, http.StatusCreated, viewOf(&g, callerID))
}

// HandleDeleteGroup deletes a group and purges every user_groups entry that
// referenced it. Admin only.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	callerID, _ := identity.UserID(r)
	id, ok := groupID(r)
	if !ok {
		h.writeBadRequest(w, "invalid group ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if !grouppolicy.CanManage(&g, callerID) {
		h.writeErr(w, r, errNotAdmin("deleting a group"))
		return
	}

	if _, err := h.Groups.Delete(ctx, id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	purged, err := h.UserGroups.DeleteByGroup(ctx, id)
	if err != nil {
		// The group is gone; a failed purge leaves dangling index entries
		// for the repair worker. Report success but log loudly.
		h.Log.Error("index purge after group delete failed",
			zap.Error(err), zap.String("group_id", id.Hex()))
	}

	h.writeData(w, http.StatusOK, map[string]any{
		"deleted":       true,
		"index_entries": purged,
	})
}
