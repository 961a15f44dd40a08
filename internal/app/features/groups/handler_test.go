package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	groupsfeature "github.com/dalemusser/grouphub/internal/app/features/groups"
	"github.com/dalemusser/grouphub/internal/app/membership"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/grouphub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// newRouter builds the groups router over an in-memory world. Endpoints that
// only go through the membership manager work without a database.
func newRouter(groups ...models.Group) (chi.Router, *testutil.MemGroupStore) {
	store := testutil.NewMemGroupStore(groups...)
	mgr := membership.NewManager(store, testutil.NewMemIndex(), &testutil.StubLimiter{Allow: true}, &testutil.CaptureDispatcher{}, zap.NewNop(), time.Hour)
	h := groupsfeature.NewHandler(mgr, nil, nil, nil, zap.NewNop())
	return groupsfeature.Routes(h), store
}

type wireEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, r chi.Router, method, target, userID string) (int, wireEnvelope) {
	t.Helper()
	var req *http.Request
	if userID == "" {
		req = testutil.NewRequest(method, target)
	} else {
		req = testutil.NewUserRequest(method, target, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env wireEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parsing response %q: %v", rec.Body.String(), err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	return rec.Code, env
}

func TestJoinEndpoint(t *testing.T) {
	g := testutil.NewGroup("Hiking", models.PrivacyPublic, "alice")
	r, store := newRouter(g)

	code, env := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/join", "bob")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("join: got %d %+v, want 200 success", code, env)
	}

	var view struct {
		MemberCount int    `json:"member_count"`
		CallerState string `json:"caller_state"`
		CallerRole  string `json:"caller_role"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("parsing view: %v", err)
	}
	if view.CallerState != "member" || view.CallerRole != models.RoleMember {
		t.Errorf("caller view: got %+v, want member/member", view)
	}
	if view.MemberCount != 2 {
		t.Errorf("member_count: got %d, want 2", view.MemberCount)
	}

	committed, _ := store.Snapshot(g.ID)
	if !committed.IsMember("bob") {
		t.Error("join not committed")
	}
}

func TestJoinEndpoint_PrivateGroupConflict(t *testing.T) {
	g := testutil.NewGroup("Book Club", models.PrivacyPrivate, "alice")
	r, _ := newRouter(g)

	code, env := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/join", "bob")
	if code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", code)
	}
	if env.Error == nil || env.Error.Kind != "invalid_state" {
		t.Errorf("error: got %+v, want kind invalid_state", env.Error)
	}
}

func TestJoinEndpoint_RequiresIdentity(t *testing.T) {
	g := testutil.NewGroup("Hiking", models.PrivacyPublic, "alice")
	r, _ := newRouter(g)

	code, env := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/join", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", code)
	}
	if env.Error == nil || env.Error.Kind != "unauthenticated" {
		t.Errorf("error: got %+v, want kind unauthenticated", env.Error)
	}
}

func TestJoinEndpoint_BadGroupID(t *testing.T) {
	r, _ := newRouter()

	code, env := doRequest(t, r, "POST", "/not-an-oid/join", "bob")
	if code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", code)
	}
	if env.Error == nil || env.Error.Kind != "bad_request" {
		t.Errorf("error: got %+v, want kind bad_request", env.Error)
	}
}

func TestJoinEndpoint_UnknownGroup(t *testing.T) {
	r, _ := newRouter()
	g := testutil.NewGroup("Ghost", models.PrivacyPublic, "alice")

	code, env := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/join", "bob")
	if code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", code)
	}
	if env.Error == nil || env.Error.Kind != "group_not_found" {
		t.Errorf("error: got %+v, want kind group_not_found", env.Error)
	}
}

func TestRequestApproveFlow(t *testing.T) {
	g := testutil.NewGroup("Book Club", models.PrivacyPrivate, "alice")
	r, store := newRouter(g)
	base := "/" + g.ID.Hex()

	code, _ := doRequest(t, r, "POST", base+"/request", "bob")
	if code != http.StatusOK {
		t.Fatalf("request: got %d, want 200", code)
	}

	// Non-admin may not list the queue.
	code, env := doRequest(t, r, "GET", base+"/requests", "bob")
	if code != http.StatusForbidden || env.Error == nil || env.Error.Kind != "not_authorized" {
		t.Fatalf("list as non-admin: got %d %+v, want 403 not_authorized", code, env.Error)
	}

	code, env = doRequest(t, r, "GET", base+"/requests", "alice")
	if code != http.StatusOK {
		t.Fatalf("list as admin: got %d, want 200", code)
	}
	var pending []struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(env.Data, &pending); err != nil {
		t.Fatalf("parsing pending list: %v", err)
	}
	if len(pending) != 1 || pending[0].UserID != "bob" {
		t.Fatalf("pending: got %+v, want [bob]", pending)
	}

	code, _ = doRequest(t, r, "POST", base+"/requests/bob/approve", "alice")
	if code != http.StatusOK {
		t.Fatalf("approve: got %d, want 200", code)
	}

	committed, _ := store.Snapshot(g.ID)
	if !committed.IsMember("bob") {
		t.Error("approval not committed")
	}
	if committed.Requests["bob"].Status != models.RequestAccepted {
		t.Errorf("request status: got %q, want accepted", committed.Requests["bob"].Status)
	}
}

func TestMembershipStateEndpoint(t *testing.T) {
	g := testutil.NewGroup("Book Club", models.PrivacyPrivate, "alice")
	testutil.AddPendingRequest(&g, "bob", time.Now().UTC())
	r, _ := newRouter(g)
	base := "/" + g.ID.Hex()

	code, env := doRequest(t, r, "GET", base+"/membership", "bob")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	var state struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("parsing state: %v", err)
	}
	if state.State != membership.StatePending {
		t.Errorf("state: got %q, want pending", state.State)
	}

	// Admin inspects another user via ?user_id=.
	code, env = doRequest(t, r, "GET", base+"/membership?user_id=bob", "alice")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("parsing state: %v", err)
	}
	if state.State != membership.StatePending {
		t.Errorf("state for bob via alice: got %q, want pending", state.State)
	}
}

func TestLeaveEndpoint_LastAdminConflict(t *testing.T) {
	g := testutil.NewGroup("Hiking", models.PrivacyPublic, "alice")
	r, _ := newRouter(g)

	code, env := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/leave", "alice")
	if code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", code)
	}
	if env.Error == nil || env.Error.Kind != "last_admin_protected" {
		t.Errorf("error: got %+v, want kind last_admin_protected", env.Error)
	}
}

func TestPromoteAndRemoveEndpoints(t *testing.T) {
	g := testutil.NewGroup("Hiking", models.PrivacyPublic, "alice")
	testutil.AddMember(&g, "bob")
	testutil.AddMember(&g, "carol")
	r, store := newRouter(g)
	base := "/" + g.ID.Hex()

	code, _ := doRequest(t, r, "POST", base+"/members/bob/promote", "alice")
	if code != http.StatusOK {
		t.Fatalf("promote: got %d, want 200", code)
	}

	// Non-admin removal is forbidden.
	code, env := doRequest(t, r, "POST", base+"/members/bob/remove", "carol")
	if code != http.StatusForbidden || env.Error == nil || env.Error.Kind != "not_authorized" {
		t.Fatalf("remove as non-admin: got %d %+v, want 403 not_authorized", code, env.Error)
	}

	code, _ = doRequest(t, r, "POST", base+"/members/carol/remove", "bob")
	if code != http.StatusOK {
		t.Fatalf("remove: got %d, want 200", code)
	}

	committed, _ := store.Snapshot(g.ID)
	if !committed.IsAdmin("bob") {
		t.Error("promotion not committed")
	}
	if committed.IsMember("carol") {
		t.Error("removal not committed")
	}
}

func TestCancelRequestEndpoint(t *testing.T) {
	g := testutil.NewGroup("Book Club", models.PrivacyPrivate, "alice")
	testutil.AddPendingRequest(&g, "bob", time.Now().UTC())
	r, store := newRouter(g)

	code, _ := doRequest(t, r, "POST", "/"+g.ID.Hex()+"/request/cancel", "bob")
	if code != http.StatusOK {
		t.Fatalf("cancel: got %d, want 200", code)
	}
	committed, _ := store.Snapshot(g.ID)
	if committed.Requests["bob"].Status != models.RequestCancelled {
		t.Errorf("status: got %q, want cancelled", committed.Requests["bob"].Status)
	}
}
