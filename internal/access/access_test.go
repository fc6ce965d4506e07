package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/access"
	"github.com/teamnest/teamnest/internal/domain"
)

var (
	owner  = primitive.NewObjectID()
	admin  = primitive.NewObjectID()
	viewer = primitive.NewObjectID()
)

func testWorkspace() *domain.Workspace {
	now := time.Now()
	return &domain.Workspace{
		ID:      primitive.NewObjectID(),
		Name:    "Engineering",
		OwnerID: owner,
		Members: []domain.WorkspaceMember{
			{UserID: owner, Role: domain.RoleOwner, JoinedAt: now},
			{UserID: admin, Role: domain.RoleAdmin, JoinedAt: now},
			{UserID: viewer, Role: domain.RoleViewer, JoinedAt: now},
		},
	}
}

func TestFindMembership(t *testing.T) {
	ws := testWorkspace()

	m, ok := access.FindMembership(ws, admin)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, m.Role)
	assert.Equal(t, admin, m.UserID)

	_, ok = access.FindMembership(ws, primitive.NewObjectID())
	assert.False(t, ok)

	assert.True(t, access.IsMember(ws, viewer))
	assert.False(t, access.IsMember(ws, primitive.NewObjectID()))
}

func TestHasManagerialRole(t *testing.T) {
	ws := testWorkspace()

	assert.True(t, access.HasManagerialRole(ws, owner))
	assert.True(t, access.HasManagerialRole(ws, admin))
	assert.False(t, access.HasManagerialRole(ws, viewer))
	assert.False(t, access.HasManagerialRole(ws, primitive.NewObjectID()))
}

func TestCanRemove_OwnerIsUnremovable(t *testing.T) {
	ws := testWorkspace()

	// Regardless of who asks, the owner can never be removed.
	d := access.CanRemove(ws, admin, owner)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.CannotRemoveOwner, d.Reason)

	d = access.CanRemove(ws, owner, owner)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.CannotRemoveSelf, d.Reason)
}

func TestCanRemove_SelfRemovalBlocked(t *testing.T) {
	ws := testWorkspace()

	d := access.CanRemove(ws, admin, admin)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.CannotRemoveSelf, d.Reason)
}

func TestCanRemove_CheckOrder(t *testing.T) {
	ws := testWorkspace()

	// A non-managerial actor targeting the owner violates two rules at
	// once; the reported reason must be the first in check order.
	d := access.CanRemove(ws, viewer, owner)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.InsufficientPermissions, d.Reason)
}

func TestCanRemove_TargetNotFound(t *testing.T) {
	ws := testWorkspace()

	d := access.CanRemove(ws, admin, primitive.NewObjectID())
	assert.False(t, d.Allowed)
	assert.Equal(t, access.MemberNotFound, d.Reason)
}

func TestCanRemove_Permit(t *testing.T) {
	ws := testWorkspace()

	d := access.CanRemove(ws, admin, viewer)
	assert.True(t, d.Allowed)

	d = access.CanRemove(ws, owner, admin)
	assert.True(t, d.Allowed)
}

func TestCanChangeRole(t *testing.T) {
	ws := testWorkspace()

	t.Run("admin may promote a viewer", func(t *testing.T) {
		d := access.CanChangeRole(ws, admin, viewer, domain.RoleAdmin)
		assert.True(t, d.Allowed)
	})

	t.Run("viewer may not change roles", func(t *testing.T) {
		d := access.CanChangeRole(ws, viewer, admin, domain.RoleViewer)
		assert.False(t, d.Allowed)
		assert.Equal(t, access.InsufficientPermissions, d.Reason)
	})

	t.Run("owner role is immutable", func(t *testing.T) {
		d := access.CanChangeRole(ws, admin, owner, domain.RoleMember)
		assert.False(t, d.Allowed)
		assert.Equal(t, access.CannotChangeOwnerRole, d.Reason)
	})

	t.Run("unknown target", func(t *testing.T) {
		d := access.CanChangeRole(ws, owner, primitive.NewObjectID(), domain.RoleMember)
		assert.False(t, d.Allowed)
		assert.Equal(t, access.MemberNotFound, d.Reason)
	})
}

func TestCanInvite(t *testing.T) {
	ws := testWorkspace()

	t.Run("permit", func(t *testing.T) {
		d := access.CanInvite(ws, admin, primitive.NewObjectID())
		assert.True(t, d.Allowed)
	})

	t.Run("non-managerial actor", func(t *testing.T) {
		d := access.CanInvite(ws, viewer, primitive.NewObjectID())
		assert.False(t, d.Allowed)
		assert.Equal(t, access.InsufficientPermissions, d.Reason)
	})

	t.Run("inviting an existing member is rejected for every role", func(t *testing.T) {
		for _, existing := range []primitive.ObjectID{owner, admin, viewer} {
			d := access.CanInvite(ws, owner, existing)
			assert.False(t, d.Allowed)
			assert.Equal(t, access.AlreadyMember, d.Reason)
		}
	})
}

func TestCanAcceptSelfJoin(t *testing.T) {
	ws := testWorkspace()

	d := access.CanAcceptSelfJoin(ws, primitive.NewObjectID())
	assert.True(t, d.Allowed)

	d = access.CanAcceptSelfJoin(ws, viewer)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.AlreadyMember, d.Reason)
}

func TestCanAccessProject(t *testing.T) {
	ws := testWorkspace()
	project := &domain.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: ws.ID,
		// Project member list is deliberately empty: visibility derives
		// from workspace membership alone.
		Members: nil,
	}

	assert.True(t, access.CanAccessProject(ws, project, viewer))
	assert.False(t, access.CanAccessProject(ws, project, primitive.NewObjectID()))
}

// End-to-end scenario over a single member list: owner, admin, viewer.
func TestDecisionScenario(t *testing.T) {
	ws := testWorkspace()

	d := access.CanChangeRole(ws, admin, viewer, domain.RoleAdmin)
	assert.True(t, d.Allowed)

	d = access.CanChangeRole(ws, viewer, admin, domain.RoleViewer)
	assert.Equal(t, access.InsufficientPermissions, d.Reason)

	d = access.CanRemove(ws, admin, owner)
	assert.Equal(t, access.CannotRemoveOwner, d.Reason)

	d = access.CanRemove(ws, owner, owner)
	assert.Equal(t, access.CannotRemoveSelf, d.Reason)
}

func TestFilterMembers(t *testing.T) {
	members := []domain.MemberProfile{
		{UserID: owner, Name: "Alice Hart", Email: "alice@example.com", Role: domain.RoleOwner},
		{UserID: admin, Name: "Bob Stone", Email: "bob@example.com", Role: domain.RoleAdmin},
		{UserID: viewer, Name: "Carol Reyes", Email: "carol@acme.io", Role: domain.RoleViewer},
	}

	t.Run("empty query returns full list", func(t *testing.T) {
		assert.Equal(t, members, access.FilterMembers(members, ""))
		assert.Equal(t, members, access.FilterMembers(members, "   "))
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := access.FilterMembers(members, "ALICE")
		assert.Len(t, got, 1)
		assert.Equal(t, "Alice Hart", got[0].Name)
	})

	t.Run("matches email", func(t *testing.T) {
		got := access.FilterMembers(members, "acme.io")
		assert.Len(t, got, 1)
		assert.Equal(t, "Carol Reyes", got[0].Name)
	})

	t.Run("matches role string", func(t *testing.T) {
		got := access.FilterMembers(members, "ADMIN")
		assert.Len(t, got, 1)
		assert.Equal(t, domain.RoleAdmin, got[0].Role)
	})

	t.Run("result is a subset", func(t *testing.T) {
		got := access.FilterMembers(members, "example.com")
		assert.Len(t, got, 2)
		for _, m := range got {
			assert.Contains(t, members, m)
		}
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, access.FilterMembers(members, "zzz"))
	})
}
