package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/domain"
)

// MockWorkspaceRepository mocks WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, workspaceID primitive.ObjectID, member domain.WorkspaceMember) error {
	args := m.Called(ctx, workspaceID, member)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role domain.WorkspaceRole) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}

// MockUserRepository mocks UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockProjectRepository mocks ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Project, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.ProjectUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockProjectRepository) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

// MockInviteCodes mocks InviteCodes
type MockInviteCodes struct {
	mock.Mock
}

func (m *MockInviteCodes) Generate(ctx context.Context, workspaceID primitive.ObjectID) (string, error) {
	args := m.Called(ctx, workspaceID)
	return args.String(0), args.Error(1)
}

func (m *MockInviteCodes) Resolve(ctx context.Context, code string) (primitive.ObjectID, bool, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(primitive.ObjectID), args.Bool(1), args.Error(2)
}
