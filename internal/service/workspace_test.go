package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/domain"
	mongorepo "github.com/teamnest/teamnest/internal/repository/mongo"
	"github.com/teamnest/teamnest/internal/security"
)

func testJWTManager() *security.JWTManager {
	return security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, time.Hour, time.Hour)
}

func workspaceFixture(ownerID, adminID, viewerID primitive.ObjectID) *domain.Workspace {
	now := time.Now()
	return &domain.Workspace{
		ID:      primitive.NewObjectID(),
		Name:    "Acme",
		Color:   "#ff6b6b",
		OwnerID: ownerID,
		Members: []domain.WorkspaceMember{
			{UserID: ownerID, Role: domain.RoleOwner, JoinedAt: now},
			{UserID: adminID, Role: domain.RoleAdmin, JoinedAt: now},
			{UserID: viewerID, Role: domain.RoleViewer, JoinedAt: now},
		},
	}
}

func TestWorkspaceService_Create(t *testing.T) {
	mockWorkspaceRepo := new(MockWorkspaceRepository)
	svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo}

	ctx := context.Background()
	userID := primitive.NewObjectID()

	mockWorkspaceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

	workspace, err := svc.Create(ctx, userID, domain.WorkspaceCreate{Name: "Acme", Color: "#ff6b6b"})
	assert.NoError(t, err)
	assert.Equal(t, userID, workspace.OwnerID)
	assert.Len(t, workspace.Members, 1)
	assert.Equal(t, domain.RoleOwner, workspace.Members[0].Role)
	assert.Equal(t, userID, workspace.Members[0].UserID)
	assert.False(t, workspace.Members[0].JoinedAt.IsZero())

	mockWorkspaceRepo.AssertExpectations(t)
}

func TestWorkspaceService_GetByID(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	t.Run("member may read", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo}
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		got, err := svc.GetByID(ctx, viewerID, ws.ID)
		assert.NoError(t, err)
		assert.Equal(t, ws, got)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo}
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		_, err := svc.GetByID(ctx, primitive.NewObjectID(), ws.ID)
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("missing workspace", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo}
		missing := primitive.NewObjectID()
		mockWorkspaceRepo.On("GetByID", ctx, missing).Return(nil, nil)

		_, err := svc.GetByID(ctx, viewerID, missing)
		assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	})
}

func TestWorkspaceService_GetDetail(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	mockWorkspaceRepo := new(MockWorkspaceRepository)
	mockUserRepo := new(MockUserRepository)
	svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo, userRepo: mockUserRepo}

	mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
	mockUserRepo.On("GetManyByIDs", ctx, mock.AnythingOfType("[]primitive.ObjectID")).Return([]domain.User{
		{ID: ownerID, Name: "Alice", Email: "alice@example.com"},
		{ID: adminID, Name: "Bob", Email: "bob@example.com"},
		{ID: viewerID, Name: "Carol", Email: "carol@example.com"},
	}, nil)

	t.Run("unfiltered", func(t *testing.T) {
		detail, err := svc.GetDetail(ctx, adminID, ws.ID, "")
		assert.NoError(t, err)
		assert.Len(t, detail.Members, 3)
		assert.Equal(t, "Alice", detail.Members[0].Name)
		assert.Equal(t, domain.RoleOwner, detail.Members[0].Role)
	})

	t.Run("filtered by name", func(t *testing.T) {
		detail, err := svc.GetDetail(ctx, adminID, ws.ID, "bob")
		assert.NoError(t, err)
		assert.Len(t, detail.Members, 1)
		assert.Equal(t, "Bob", detail.Members[0].Name)
	})
}

func TestWorkspaceService_InviteMember(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	newService := func() (*WorkspaceService, *MockWorkspaceRepository, *MockUserRepository) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		mockUserRepo := new(MockUserRepository)
		svc := &WorkspaceService{
			workspaceRepo: mockWorkspaceRepo,
			userRepo:      mockUserRepo,
			jwtManager:    testJWTManager(),
		}
		return svc, mockWorkspaceRepo, mockUserRepo
	}

	t.Run("admin invites a new user", func(t *testing.T) {
		svc, mockWorkspaceRepo, mockUserRepo := newService()
		invitee := &domain.User{ID: primitive.NewObjectID(), Email: "dora@example.com"}
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockUserRepo.On("GetByEmail", ctx, "dora@example.com").Return(invitee, nil)

		token, err := svc.InviteMember(ctx, adminID, ws.ID, domain.MemberInvite{
			Email: "dora@example.com",
			Role:  domain.RoleMember,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		invite, err := svc.jwtManager.ValidateInviteToken(token)
		assert.NoError(t, err)
		assert.Equal(t, invitee.ID, invite.UserID)
		assert.Equal(t, ws.ID, invite.WorkspaceID)
		assert.Equal(t, domain.RoleMember, invite.Role)
	})

	t.Run("viewer may not invite", func(t *testing.T) {
		svc, mockWorkspaceRepo, mockUserRepo := newService()
		invitee := &domain.User{ID: primitive.NewObjectID(), Email: "dora@example.com"}
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockUserRepo.On("GetByEmail", ctx, "dora@example.com").Return(invitee, nil)

		_, err := svc.InviteMember(ctx, viewerID, ws.ID, domain.MemberInvite{
			Email: "dora@example.com",
			Role:  domain.RoleMember,
		})
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})

	t.Run("existing member is rejected regardless of role", func(t *testing.T) {
		svc, mockWorkspaceRepo, mockUserRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockUserRepo.On("GetByEmail", ctx, "carol@example.com").Return(&domain.User{ID: viewerID}, nil)

		_, err := svc.InviteMember(ctx, ownerID, ws.ID, domain.MemberInvite{
			Email: "carol@example.com",
			Role:  domain.RoleAdmin,
		})
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("owner role cannot be granted", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.InviteMember(ctx, ownerID, ws.ID, domain.MemberInvite{
			Email: "dora@example.com",
			Role:  domain.RoleOwner,
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown invitee", func(t *testing.T) {
		svc, mockWorkspaceRepo, mockUserRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockUserRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

		_, err := svc.InviteMember(ctx, ownerID, ws.ID, domain.MemberInvite{
			Email: "ghost@example.com",
			Role:  domain.RoleMember,
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestWorkspaceService_AcceptInvite(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()
	jwtManager := testJWTManager()

	t.Run("invitee joins with the invited role", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo, jwtManager: jwtManager}

		inviteeID := primitive.NewObjectID()
		token, err := jwtManager.GenerateInviteToken(inviteeID, ws.ID, domain.RoleAdmin)
		assert.NoError(t, err)

		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("AddMember", ctx, ws.ID, mock.MatchedBy(func(m domain.WorkspaceMember) bool {
			return m.UserID == inviteeID && m.Role == domain.RoleAdmin
		})).Return(nil)

		_, err = svc.AcceptInvite(ctx, inviteeID, token)
		assert.NoError(t, err)
		mockWorkspaceRepo.AssertExpectations(t)
	})

	t.Run("token bound to someone else", func(t *testing.T) {
		svc := &WorkspaceService{jwtManager: jwtManager}
		token, err := jwtManager.GenerateInviteToken(primitive.NewObjectID(), ws.ID, domain.RoleMember)
		assert.NoError(t, err)

		_, err = svc.AcceptInvite(ctx, primitive.NewObjectID(), token)
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})

	t.Run("existing member cannot accept again", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo, jwtManager: jwtManager}

		token, err := jwtManager.GenerateInviteToken(viewerID, ws.ID, domain.RoleMember)
		assert.NoError(t, err)
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		_, err = svc.AcceptInvite(ctx, viewerID, token)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := &WorkspaceService{jwtManager: jwtManager}
		_, err := svc.AcceptInvite(ctx, viewerID, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})
}

func TestWorkspaceService_JoinByCode(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	t.Run("non-member joins as member", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		mockCodes := new(MockInviteCodes)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo, inviteCodes: mockCodes}

		joiner := primitive.NewObjectID()
		mockCodes.On("Resolve", ctx, "code-1").Return(ws.ID, true, nil)
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("AddMember", ctx, ws.ID, mock.MatchedBy(func(m domain.WorkspaceMember) bool {
			return m.UserID == joiner && m.Role == domain.RoleMember
		})).Return(nil)

		_, err := svc.JoinByCode(ctx, joiner, "code-1")
		assert.NoError(t, err)
		mockWorkspaceRepo.AssertExpectations(t)
	})

	t.Run("expired code", func(t *testing.T) {
		mockCodes := new(MockInviteCodes)
		svc := &WorkspaceService{inviteCodes: mockCodes}
		mockCodes.On("Resolve", ctx, "stale").Return(primitive.NilObjectID, false, nil)

		_, err := svc.JoinByCode(ctx, primitive.NewObjectID(), "stale")
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})

	t.Run("concurrent duplicate join surfaces as retryable conflict", func(t *testing.T) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		mockCodes := new(MockInviteCodes)
		svc := &WorkspaceService{workspaceRepo: mockWorkspaceRepo, inviteCodes: mockCodes}

		joiner := primitive.NewObjectID()
		mockCodes.On("Resolve", ctx, "code-2").Return(ws.ID, true, nil)
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("AddMember", ctx, ws.ID, mock.AnythingOfType("domain.WorkspaceMember")).
			Return(mongorepo.ErrStaleMembers)

		_, err := svc.JoinByCode(ctx, joiner, "code-2")
		assert.ErrorIs(t, err, ErrMembershipChanged)
	})
}

func TestWorkspaceService_RemoveMember(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	newService := func() (*WorkspaceService, *MockWorkspaceRepository) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		return &WorkspaceService{workspaceRepo: mockWorkspaceRepo}, mockWorkspaceRepo
	}

	t.Run("admin removes viewer", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("RemoveMember", ctx, ws.ID, viewerID).Return(nil)

		assert.NoError(t, svc.RemoveMember(ctx, adminID, ws.ID, viewerID))
		mockWorkspaceRepo.AssertExpectations(t)
	})

	t.Run("owner is unremovable", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.RemoveMember(ctx, adminID, ws.ID, ownerID)
		assert.ErrorIs(t, err, ErrCannotRemoveOwner)
	})

	t.Run("self-removal blocked even for managers", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.RemoveMember(ctx, adminID, ws.ID, adminID)
		assert.ErrorIs(t, err, ErrCannotRemoveSelf)
	})

	t.Run("non-managerial actor targeting owner reports permissions first", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.RemoveMember(ctx, viewerID, ws.ID, ownerID)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})

	t.Run("lost update maps to retryable conflict", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("RemoveMember", ctx, ws.ID, viewerID).Return(mongorepo.ErrStaleMembers)

		err := svc.RemoveMember(ctx, adminID, ws.ID, viewerID)
		assert.ErrorIs(t, err, ErrMembershipChanged)
	})
}

func TestWorkspaceService_UpdateMemberRole(t *testing.T) {
	ownerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	viewerID := primitive.NewObjectID()
	ws := workspaceFixture(ownerID, adminID, viewerID)
	ctx := context.Background()

	newService := func() (*WorkspaceService, *MockWorkspaceRepository) {
		mockWorkspaceRepo := new(MockWorkspaceRepository)
		return &WorkspaceService{workspaceRepo: mockWorkspaceRepo}, mockWorkspaceRepo
	}

	t.Run("admin promotes viewer to admin", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)
		mockWorkspaceRepo.On("UpdateMemberRole", ctx, ws.ID, viewerID, domain.RoleAdmin).Return(nil)

		assert.NoError(t, svc.UpdateMemberRole(ctx, adminID, ws.ID, viewerID, domain.RoleAdmin))
		mockWorkspaceRepo.AssertExpectations(t)
	})

	t.Run("viewer may not change roles", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.UpdateMemberRole(ctx, viewerID, ws.ID, adminID, domain.RoleViewer)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})

	t.Run("owner role is immutable", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.UpdateMemberRole(ctx, adminID, ws.ID, ownerID, domain.RoleMember)
		assert.ErrorIs(t, err, ErrCannotChangeOwnerRole)
	})

	t.Run("ownership cannot be granted", func(t *testing.T) {
		svc, _ := newService()
		err := svc.UpdateMemberRole(ctx, adminID, ws.ID, viewerID, domain.RoleOwner)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, mockWorkspaceRepo := newService()
		mockWorkspaceRepo.On("GetByID", ctx, ws.ID).Return(ws, nil)

		err := svc.UpdateMemberRole(ctx, adminID, ws.ID, primitive.NewObjectID(), domain.RoleMember)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}
