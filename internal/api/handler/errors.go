package handler

import (
	"errors"
	"net/http"

	"github.com/teamnest/teamnest/internal/api/response"
	"github.com/teamnest/teamnest/internal/service"
)

// serviceError maps service sentinel errors to transport responses.
// Handlers with path-specific wording branch on the sentinel first and
// fall through to this for everything else.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound):
		response.NotFound(w, "Workspace not found")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(w, "Project not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, service.ErrNotMember):
		response.Forbidden(w, "You are not a member of this workspace")
	case errors.Is(err, service.ErrInsufficientPermissions):
		response.Forbidden(w, "Insufficient permissions")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(w, "Member not found")
	case errors.Is(err, service.ErrCannotRemoveOwner):
		response.Forbidden(w, "Cannot remove workspace owner")
	case errors.Is(err, service.ErrCannotRemoveSelf):
		response.Forbidden(w, "Cannot remove yourself")
	case errors.Is(err, service.ErrCannotChangeOwnerRole):
		response.Forbidden(w, "Cannot change owner role")
	case errors.Is(err, service.ErrAlreadyMember):
		response.BadRequest(w, "User is already a member")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(w, "Invalid role")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(w, "Invalid project status")
	case errors.Is(err, service.ErrInvalidInvite):
		response.BadRequest(w, "Invalid or expired invite")
	case errors.Is(err, service.ErrMembershipChanged):
		response.Conflict(w, "membership changed, retry")
	default:
		response.InternalError(w, "Internal server error")
	}
}
