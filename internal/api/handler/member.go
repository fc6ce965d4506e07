package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/api/middleware"
	"github.com/teamnest/teamnest/internal/api/response"
	"github.com/teamnest/teamnest/internal/domain"
	"github.com/teamnest/teamnest/internal/service"
)

// MemberHandler handles workspace membership endpoints
type MemberHandler struct {
	workspaceService *service.WorkspaceService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(workspaceService *service.WorkspaceService) *MemberHandler {
	return &MemberHandler{workspaceService: workspaceService}
}

// Invite handles inviting a user by email. The signed invite token is
// returned to the caller; delivering it is not this service's concern.
func (h *MemberHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.MemberInvite
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	token, err := h.workspaceService.InviteMember(r.Context(), userID, workspaceID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, map[string]string{"invite_token": token})
}

// AcceptInvite handles redeeming an invite token
func (h *MemberHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		Token string `json:"token" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	workspace, err := h.workspaceService.AcceptInvite(r.Context(), userID, input.Token)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyMember) {
			response.BadRequest(w, "You are already a member")
			return
		}
		serviceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// CreateInviteCode handles generating a shareable self-join code
func (h *MemberHandler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	code, err := h.workspaceService.CreateInviteCode(r.Context(), userID, workspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, map[string]string{"invite_code": code})
}

// JoinByCode handles self-joining through an invite code
func (h *MemberHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	code := chi.URLParam(r, "inviteCode")
	if code == "" {
		response.BadRequest(w, "missing invite code")
		return
	}

	workspace, err := h.workspaceService.JoinByCode(r.Context(), userID, code)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyMember) {
			response.BadRequest(w, "You are already a member")
			return
		}
		serviceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Remove handles removing a member from a workspace
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	if err := h.workspaceService.RemoveMember(r.Context(), userID, workspaceID, targetID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateRole handles changing a member's workspace role
func (h *MemberHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "invalid member ID")
		return
	}

	var input domain.MemberRoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	if err := h.workspaceService.UpdateMemberRole(r.Context(), userID, workspaceID, targetID, input.Role); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
