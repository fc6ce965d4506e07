package handler

import (
	"encoding/json"
	"net/http"

	"github.com/teamnest/teamnest/internal/api/middleware"
	"github.com/teamnest/teamnest/internal/api/response"
	"github.com/teamnest/teamnest/internal/domain"
	"github.com/teamnest/teamnest/internal/service"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	projectService   *service.ProjectService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService, projectService *service.ProjectService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		projectService:   projectService,
	}
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.WorkspaceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles listing user's workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	workspaces, err := h.workspaceService.ListByUser(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// Get handles getting a workspace with hydrated members. An optional
// ?q= query filters members by name, email or role.
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.workspaceService.GetDetail(r.Context(), userID, workspaceID, r.URL.Query().Get("q"))
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, detail)
}

// ListProjects handles listing a workspace's non-archived projects
func (h *WorkspaceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
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

	projects, err := h.projectService.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, projects)
}
