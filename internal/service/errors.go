package service

import "errors"

// Sentinel errors the HTTP layer maps to transport statuses. Decision
// denials from the access package are translated to these one-to-one;
// nothing here is retryable except ErrMembershipChanged.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrProjectNotFound   = errors.New("project not found")

	ErrNotMember               = errors.New("not a workspace member")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrMemberNotFound          = errors.New("member not found")
	ErrCannotRemoveOwner       = errors.New("cannot remove workspace owner")
	ErrCannotRemoveSelf        = errors.New("cannot remove yourself")
	ErrCannotChangeOwnerRole   = errors.New("cannot change owner role")
	ErrAlreadyMember           = errors.New("user is already a member")

	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid project status")
	ErrInvalidInvite = errors.New("invalid or expired invite")

	// ErrMembershipChanged reports a lost-update conflict: the member
	// list moved between the decision snapshot and the write. Callers
	// should re-fetch and retry.
	ErrMembershipChanged = errors.New("membership changed, retry")
)
