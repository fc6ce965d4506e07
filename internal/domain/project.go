package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "In Progress"
	StatusOnHold     ProjectStatus = "On Hold"
	StatusCompleted  ProjectStatus = "Completed"
	StatusCancelled  ProjectStatus = "Cancelled"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ProjectRole is a member's role within a project. It is a distinct
// vocabulary from WorkspaceRole and does not gate project read access;
// it controls task-assignment eligibility and UI labels only.
type ProjectRole string

const (
	ProjectRoleManager     ProjectRole = "manager"
	ProjectRoleContributor ProjectRole = "contributor"
	ProjectRoleViewer      ProjectRole = "viewer"
)

// Valid reports whether r is a known project role.
func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectRoleManager, ProjectRoleContributor, ProjectRoleViewer:
		return true
	}
	return false
}

// ProjectMember links a user to a project.
type ProjectMember struct {
	UserID primitive.ObjectID `bson:"user" json:"user_id"`
	Role   ProjectRole        `bson:"role" json:"role"`
}

// ProjectTag is a labeled color chip on a project.
type ProjectTag struct {
	Tag   string `bson:"tag" json:"tag"`
	Color string `bson:"color" json:"color"`
}

// Project is a unit of work scoped to exactly one workspace. The
// workspace binding is immutable after creation; archiving soft-deletes
// the project from default listings.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	WorkspaceID primitive.ObjectID `bson:"workspace" json:"workspace_id"`
	Status      ProjectStatus      `bson:"status" json:"status"`
	StartDate   *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"due_date,omitempty"`
	Progress    int                `bson:"progress" json:"progress"`
	Tags        []ProjectTag       `bson:"tags,omitempty" json:"tags,omitempty"`
	Members     []ProjectMember    `bson:"members,omitempty" json:"members,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"created_by"`
	IsArchived  bool               `bson:"isArchived" json:"is_archived"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ProjectCreate represents project creation data
type ProjectCreate struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      ProjectStatus   `json:"status,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Tags        []ProjectTag    `json:"tags,omitempty" validate:"omitempty,dive"`
	Members     []ProjectMember `json:"members,omitempty" validate:"omitempty,dive"`
}

// ProjectUpdate represents project update data
type ProjectUpdate struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *ProjectStatus `json:"status,omitempty"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Progress    *int           `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	Tags        []ProjectTag   `json:"tags,omitempty" validate:"omitempty,dive"`
}
