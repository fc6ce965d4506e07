package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkspaceRole is a member's role within a workspace.
type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"
	RoleViewer WorkspaceRole = "viewer"
)

// Valid reports whether r is a known workspace role.
func (r WorkspaceRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// WorkspaceMember links a user to a workspace. UserID is unique within
// a workspace's member set; JoinedAt is set at insertion and never mutated.
type WorkspaceMember struct {
	UserID   primitive.ObjectID `bson:"user" json:"user_id"`
	Role     WorkspaceRole      `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joined_at"`
}

// Workspace is the top-level collaboration container. It is created with
// exactly one member, the creator, holding the owner role.
type Workspace struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Color       string             `bson:"color" json:"color"`
	OwnerID     primitive.ObjectID `bson:"owner" json:"owner_id"`
	Members     []WorkspaceMember  `bson:"members" json:"members"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// MemberProfile is a workspace membership hydrated with the user's
// directory fields, as returned by workspace detail views.
type MemberProfile struct {
	UserID         primitive.ObjectID `json:"user_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	ProfilePicture string             `json:"profile_picture,omitempty"`
	Role           WorkspaceRole      `json:"role"`
	JoinedAt       time.Time          `json:"joined_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Color       string `json:"color" validate:"required,max=32"`
}

// MemberInvite represents an invite-by-email request
type MemberInvite struct {
	Email string        `json:"email" validate:"required,email"`
	Role  WorkspaceRole `json:"role" validate:"required"`
}

// MemberRoleUpdate represents a member role change request
type MemberRoleUpdate struct {
	Role WorkspaceRole `json:"role" validate:"required"`
}
