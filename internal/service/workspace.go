package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/access"
	"github.com/teamnest/teamnest/internal/domain"
	mongorepo "github.com/teamnest/teamnest/internal/repository/mongo"
	"github.com/teamnest/teamnest/internal/security"
)

// WorkspaceRepository is the workspace store. Member mutations are
// conditional writes that fail with mongorepo.ErrStaleMembers when the
// member list no longer matches the decision's precondition.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error)
	AddMember(ctx context.Context, workspaceID primitive.ObjectID, member domain.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error
	UpdateMemberRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role domain.WorkspaceRole) error
}

// InviteCodes stores opaque self-join codes for invite links
type InviteCodes interface {
	Generate(ctx context.Context, workspaceID primitive.ObjectID) (string, error)
	Resolve(ctx context.Context, code string) (primitive.ObjectID, bool, error)
}

// WorkspaceDetail is a workspace plus its hydrated member profiles
type WorkspaceDetail struct {
	Workspace *domain.Workspace      `json:"workspace"`
	Members   []domain.MemberProfile `json:"members"`
}

// WorkspaceService handles workspace and membership operations. Every
// permission question goes through the access package against a fresh
// snapshot; the subsequent write re-checks the same precondition in its
// filter, so two racing mutations cannot both land.
type WorkspaceService struct {
	workspaceRepo WorkspaceRepository
	userRepo      UserRepository
	inviteCodes   InviteCodes
	jwtManager    *security.JWTManager
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo WorkspaceRepository,
	userRepo UserRepository,
	inviteCodes InviteCodes,
	jwtManager *security.JWTManager,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		inviteCodes:   inviteCodes,
		jwtManager:    jwtManager,
	}
}

// Create creates a new workspace with the creator as its sole owner
func (s *WorkspaceService) Create(ctx context.Context, userID primitive.ObjectID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		OwnerID:     userID,
		Members: []domain.WorkspaceMember{
			{UserID: userID, Role: domain.RoleOwner, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// ListByUser retrieves all workspaces the user belongs to
func (s *WorkspaceService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetByID retrieves a workspace, gated on membership
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID primitive.ObjectID) (*domain.Workspace, error) {
	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember(workspace, userID) {
		return nil, ErrNotMember
	}
	return workspace, nil
}

// GetDetail retrieves a workspace with hydrated member profiles,
// optionally filtered by a case-insensitive substring query against
// name, email or role.
func (s *WorkspaceService) GetDetail(ctx context.Context, userID, workspaceID primitive.ObjectID, memberQuery string) (*WorkspaceDetail, error) {
	workspace, err := s.GetByID(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	members, err := s.hydrateMembers(ctx, workspace)
	if err != nil {
		return nil, err
	}

	return &WorkspaceDetail{
		Workspace: workspace,
		Members:   access.FilterMembers(members, memberQuery),
	}, nil
}

// InviteMember resolves the invitee by email and, if permitted, signs an
// invite token binding them to the workspace with the requested role.
// Token delivery is the caller's concern.
func (s *WorkspaceService) InviteMember(ctx context.Context, actorID, workspaceID primitive.ObjectID, input domain.MemberInvite) (string, error) {
	if !input.Role.Valid() || input.Role == domain.RoleOwner {
		return "", ErrInvalidRole
	}

	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return "", err
	}

	invitee, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return "", fmt.Errorf("failed to resolve invitee: %w", err)
	}
	if invitee == nil {
		return "", ErrUserNotFound
	}

	if d := access.CanInvite(workspace, actorID, invitee.ID); !d.Allowed {
		return "", denyErr(d.Reason)
	}

	token, err := s.jwtManager.GenerateInviteToken(invitee.ID, workspaceID, input.Role)
	if err != nil {
		return "", fmt.Errorf("failed to sign invite: %w", err)
	}
	return token, nil
}

// AcceptInvite redeems an invite token for the calling user
func (s *WorkspaceService) AcceptInvite(ctx context.Context, userID primitive.ObjectID, token string) (*domain.Workspace, error) {
	invite, err := s.jwtManager.ValidateInviteToken(token)
	if err != nil {
		return nil, ErrInvalidInvite
	}
	if invite.UserID != userID {
		// Invites are bound to the resolved invitee.
		return nil, ErrInvalidInvite
	}

	return s.join(ctx, invite.WorkspaceID, userID, invite.Role)
}

// CreateInviteCode generates a shareable self-join code for the
// workspace. Any member may create one; joining through it always
// grants the default member role.
func (s *WorkspaceService) CreateInviteCode(ctx context.Context, userID, workspaceID primitive.ObjectID) (string, error) {
	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	if !access.IsMember(workspace, userID) {
		return "", ErrNotMember
	}

	code, err := s.inviteCodes.Generate(ctx, workspaceID)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return code, nil
}

// JoinByCode redeems a self-join code for the calling user
func (s *WorkspaceService) JoinByCode(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Workspace, error) {
	workspaceID, ok, err := s.inviteCodes.Resolve(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}
	if !ok {
		return nil, ErrInvalidInvite
	}

	return s.join(ctx, workspaceID, userID, domain.RoleMember)
}

// RemoveMember removes a member from the workspace
func (s *WorkspaceService) RemoveMember(ctx context.Context, actorID, workspaceID, targetID primitive.ObjectID) error {
	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}

	if d := access.CanRemove(workspace, actorID, targetID); !d.Allowed {
		return denyErr(d.Reason)
	}

	if err := s.workspaceRepo.RemoveMember(ctx, workspaceID, targetID); err != nil {
		if errors.Is(err, mongorepo.ErrStaleMembers) {
			return ErrMembershipChanged
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// UpdateMemberRole changes a member's workspace role
func (s *WorkspaceService) UpdateMemberRole(ctx context.Context, actorID, workspaceID, targetID primitive.ObjectID, role domain.WorkspaceRole) error {
	if !role.Valid() || role == domain.RoleOwner {
		// Ownership is never granted through role updates.
		return ErrInvalidRole
	}

	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}

	if d := access.CanChangeRole(workspace, actorID, targetID, role); !d.Allowed {
		return denyErr(d.Reason)
	}

	if err := s.workspaceRepo.UpdateMemberRole(ctx, workspaceID, targetID, role); err != nil {
		if errors.Is(err, mongorepo.ErrStaleMembers) {
			return ErrMembershipChanged
		}
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return nil
}

func (s *WorkspaceService) join(ctx context.Context, workspaceID, userID primitive.ObjectID, role domain.WorkspaceRole) (*domain.Workspace, error) {
	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if d := access.CanAcceptSelfJoin(workspace, userID); !d.Allowed {
		return nil, denyErr(d.Reason)
	}

	member := domain.WorkspaceMember{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.workspaceRepo.AddMember(ctx, workspaceID, member); err != nil {
		if errors.Is(err, mongorepo.ErrStaleMembers) {
			return nil, ErrMembershipChanged
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.loadWorkspace(ctx, workspaceID)
}

func (s *WorkspaceService) loadWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	return workspace, nil
}

func (s *WorkspaceService) hydrateMembers(ctx context.Context, workspace *domain.Workspace) ([]domain.MemberProfile, error) {
	ids := make([]primitive.ObjectID, len(workspace.Members))
	for i, m := range workspace.Members {
		ids[i] = m.UserID
	}

	users, err := s.userRepo.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate members: %w", err)
	}

	byID := make(map[primitive.ObjectID]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	profiles := make([]domain.MemberProfile, 0, len(workspace.Members))
	for _, m := range workspace.Members {
		p := domain.MemberProfile{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if u, ok := byID[m.UserID]; ok {
			p.Name = u.Name
			p.Email = u.Email
			p.ProfilePicture = u.ProfilePicture
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// denyErr maps an access denial to the service's sentinel errors
func denyErr(reason access.DenyReason) error {
	switch reason {
	case access.InsufficientPermissions:
		return ErrInsufficientPermissions
	case access.MemberNotFound:
		return ErrMemberNotFound
	case access.CannotRemoveOwner:
		return ErrCannotRemoveOwner
	case access.CannotRemoveSelf:
		return ErrCannotRemoveSelf
	case access.CannotChangeOwnerRole:
		return ErrCannotChangeOwnerRole
	case access.AlreadyMember:
		return ErrAlreadyMember
	default:
		return ErrInsufficientPermissions
	}
}
