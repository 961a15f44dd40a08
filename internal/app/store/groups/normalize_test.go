package groupstore

import (
	"testing"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalize_NilMaps(t *testing.T) {
	var g models.Group
	normalize(&g)

	if g.Members == nil {
		t.Error("Members map not initialized")
	}
	if g.Requests == nil {
		t.Error("Requests map not initialized")
	}
}

func TestNormalize_LegacyRequestGetsPendingStatus(t *testing.T) {
	g := models.Group{
		Requests: map[string]models.JoinRequest{
			"legacy":   {RequestedAt: time.Now().UTC()}, // written before the status field existed
			"resolved": {Status: models.RequestRejected, RequestedAt: time.Now().UTC()},
		},
	}
	normalize(&g)

	if got := g.Requests["legacy"].Status; got != models.RequestPending {
		t.Errorf("legacy status: got %q, want %q", got, models.RequestPending)
	}
	if got := g.Requests["resolved"].Status; got != models.RequestRejected {
		t.Errorf("resolved status: got %q, want %q", got, models.RequestRejected)
	}
}

// Documents written before the status field existed decode with an empty
// status string, which normalization must read as pending.
func TestDecodeLegacyRequestDocument(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"requests": bson.M{
			"bob": bson.M{"requested_at": time.Now().UTC()},
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var g models.Group
	if err := bson.Unmarshal(raw, &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	normalize(&g)

	req, ok := g.PendingRequest("bob")
	if !ok {
		t.Fatal("legacy request should surface as pending")
	}
	if req.RequestedAt.IsZero() {
		t.Error("requested_at lost in decode")
	}
}
