// Package access answers authorization questions against a workspace's
// member list. Every function is a pure computation over the snapshot the
// caller supplies; persisting the outcome of a permitted action is the
// caller's responsibility, and must be done with a conditional update so
// a stale snapshot cannot silently clobber a concurrent change.
package access

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/domain"
)

// DenyReason identifies which rule rejected an action. A Decision always
// carries the first rule violated, in the fixed check order of each
// operation, never an aggregate.
type DenyReason string

const (
	InsufficientPermissions DenyReason = "insufficient_permissions"
	MemberNotFound          DenyReason = "member_not_found"
	CannotRemoveOwner       DenyReason = "cannot_remove_owner"
	CannotRemoveSelf        DenyReason = "cannot_remove_self"
	CannotChangeOwnerRole   DenyReason = "cannot_change_owner_role"
	AlreadyMember           DenyReason = "already_member"
)

// Decision is the tagged result of a permission check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func permit() Decision           { return Decision{Allowed: true} }
func deny(r DenyReason) Decision { return Decision{Reason: r} }

// FindMembership scans the workspace's member list for userID. Membership
// lists are small (tens of entries), so a linear scan is fine.
func FindMembership(ws *domain.Workspace, userID primitive.ObjectID) (domain.WorkspaceMember, bool) {
	for _, m := range ws.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return domain.WorkspaceMember{}, false
}

// IsMember reports whether userID belongs to the workspace. Gates all
// read access to a workspace and its projects.
func IsMember(ws *domain.Workspace, userID primitive.ObjectID) bool {
	_, ok := FindMembership(ws, userID)
	return ok
}

// HasManagerialRole reports whether userID holds the owner or admin role.
// Managerial roles gate invite, role-change and removal.
func HasManagerialRole(ws *domain.Workspace, userID primitive.ObjectID) bool {
	m, ok := FindMembership(ws, userID)
	if !ok {
		return false
	}
	return m.Role == domain.RoleOwner || m.Role == domain.RoleAdmin
}

// CanRemove decides whether actorID may remove targetID from the
// workspace. Checks run in a fixed order, first violation wins.
func CanRemove(ws *domain.Workspace, actorID, targetID primitive.ObjectID) Decision {
	if !HasManagerialRole(ws, actorID) {
		return deny(InsufficientPermissions)
	}
	target, ok := FindMembership(ws, targetID)
	if !ok {
		return deny(MemberNotFound)
	}
	if targetID == actorID {
		return deny(CannotRemoveSelf)
	}
	if target.Role == domain.RoleOwner {
		return deny(CannotRemoveOwner)
	}
	return permit()
}

// CanChangeRole decides whether actorID may move targetID to newRole.
// Ownership is not transferable: the owner's role can never be changed,
// but any non-owner member may be moved to any non-owner role, including
// promotion to admin.
func CanChangeRole(ws *domain.Workspace, actorID, targetID primitive.ObjectID, newRole domain.WorkspaceRole) Decision {
	if !HasManagerialRole(ws, actorID) {
		return deny(InsufficientPermissions)
	}
	target, ok := FindMembership(ws, targetID)
	if !ok {
		return deny(MemberNotFound)
	}
	if target.Role == domain.RoleOwner {
		return deny(CannotChangeOwnerRole)
	}
	return permit()
}

// CanInvite decides whether actorID may invite inviteeID. Resolving the
// invitee from an email address happens before this call.
func CanInvite(ws *domain.Workspace, actorID, inviteeID primitive.ObjectID) Decision {
	if !HasManagerialRole(ws, actorID) {
		return deny(InsufficientPermissions)
	}
	if IsMember(ws, inviteeID) {
		return deny(AlreadyMember)
	}
	return permit()
}

// CanAcceptSelfJoin decides whether userID may join via an invite link.
// Any non-member may join; there is no managerial gate on this path.
func CanAcceptSelfJoin(ws *domain.Workspace, userID primitive.ObjectID) Decision {
	if IsMember(ws, userID) {
		return deny(AlreadyMember)
	}
	return permit()
}

// CanAccessProject reports whether userID may read the project. Project
// visibility derives entirely from workspace membership; the project's
// own member list does not restrict reads (the original system never
// enforced project roles, and that permissive default is kept).
func CanAccessProject(ws *domain.Workspace, project *domain.Project, userID primitive.ObjectID) bool {
	return IsMember(ws, userID)
}
