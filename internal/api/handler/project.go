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

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles project creation inside a workspace
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, workspaceID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, project)
}

// Get handles getting a project by ID
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := projectRequest(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), userID, projectID)
	if err != nil {
		projectError(w, err)
		return
	}

	response.OK(w, project)
}

// Update handles partially updating a project
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := projectRequest(w, r)
	if !ok {
		return
	}

	var input domain.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	project, err := h.projectService.Update(r.Context(), userID, projectID, input)
	if err != nil {
		projectError(w, err)
		return
	}

	response.OK(w, project)
}

// Archive handles soft-deleting a project
func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := projectRequest(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Archive(r.Context(), userID, projectID); err != nil {
		projectError(w, err)
		return
	}

	response.NoContent(w)
}

// projectRequest extracts the principal and project ID or writes the
// appropriate error response.
func projectRequest(w http.ResponseWriter, r *http.Request) (userID, projectID primitive.ObjectID, ok bool) {
	userID, found := middleware.GetUserID(r.Context())
	if !found {
		response.Unauthorized(w, "unauthorized")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		response.BadRequest(w, "invalid project ID")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return userID, projectID, true
}

// projectError is serviceError with project-path wording for the
// membership gate.
func projectError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotMember) {
		response.Forbidden(w, "not authorized to access this project")
		return
	}
	serviceError(w, err)
}
