package usergroupstore_test

import (
	"testing"

	usergroupstore "github.com/dalemusser/grouphub/internal/app/store/usergroups"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := usergroupstore.New(db)

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()

	for _, gid := range []primitive.ObjectID{g1, g2} {
		if err := store.Set(ctx, "alice", gid, true); err != nil {
			t.Fatalf("Set(alice, %s, true): %v", gid.Hex(), err)
		}
	}
	// Idempotent re-assert.
	if err := store.Set(ctx, "alice", g1, true); err != nil {
		t.Fatalf("re-assert Set: %v", err)
	}

	ids, err := store.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("groups for alice: got %d, want 2", len(ids))
	}

	n, err := store.CountByUser(ctx, "alice")
	if err != nil || n != 2 {
		t.Fatalf("CountByUser: n=%d err=%v, want 2 nil", n, err)
	}
}

func TestSet_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := usergroupstore.New(db)

	gid := primitive.NewObjectID()
	if err := store.Set(ctx, "bob", gid, true); err != nil {
		t.Fatalf("Set present: %v", err)
	}
	if err := store.Set(ctx, "bob", gid, false); err != nil {
		t.Fatalf("Set absent: %v", err)
	}
	// Removing an absent entry stays a no-op.
	if err := store.Set(ctx, "bob", gid, false); err != nil {
		t.Fatalf("re-remove: %v", err)
	}

	ids, err := store.ListByUser(ctx, "bob")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("groups for bob: got %d, want 0", len(ids))
	}
}

func TestDeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := usergroupstore.New(db)

	gid := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, user := range []string{"alice", "bob", "carol"} {
		if err := store.Set(ctx, user, gid, true); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := store.Set(ctx, "alice", other, true); err != nil {
		t.Fatalf("Set: %v", err)
	}

	n, err := store.DeleteByGroup(ctx, gid)
	if err != nil || n != 3 {
		t.Fatalf("DeleteByGroup: n=%d err=%v, want 3 nil", n, err)
	}

	ids, err := store.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(ids) != 1 || ids[0] != other {
		t.Fatalf("alice entries after purge: got %v, want [%s]", ids, other.Hex())
	}
}

func TestMembersByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := usergroupstore.New(db)

	gid := primitive.NewObjectID()
	for _, user := range []string{"alice", "bob"} {
		if err := store.Set(ctx, user, gid, true); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	users, err := store.MembersByGroup(ctx, gid)
	if err != nil {
		t.Fatalf("MembersByGroup: %v", err)
	}
	if len(users) != 2 || !users["alice"] || !users["bob"] {
		t.Fatalf("members: got %v, want alice and bob", users)
	}
}
