package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamnest/teamnest/internal/domain"
)

// ErrStaleMembers is returned when a conditional member-list update
// matched nothing: the list changed between the caller's snapshot and
// the write. The caller should re-fetch, re-decide and retry.
var ErrStaleMembers = errors.New("member list changed")

// WorkspaceRepository handles workspace data access. All member-list
// mutations are single conditional updates whose filter re-encodes the
// precondition the caller decided on, so a stale snapshot can never
// produce a lost update.
type WorkspaceRepository struct {
	coll *mongo.Collection
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{coll: db.Collection("workspaces")}
}

// Create inserts a new workspace and fills in the generated ID
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	res, err := r.coll.InsertOne(ctx, workspace)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		workspace.ID = id
	}
	return nil
}

// GetByID retrieves a workspace by ID, nil if not found
func (r *WorkspaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&workspace)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &workspace, nil
}

// ListByUserID retrieves all workspaces the user is a member of
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"members.user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer cursor.Close(ctx)

	var workspaces []domain.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return workspaces, nil
}

// AddMember appends a member. The filter requires the user to not be a
// member yet; a concurrent insert of the same user makes this a no-op
// reported as ErrStaleMembers.
func (r *WorkspaceRepository) AddMember(ctx context.Context, workspaceID primitive.ObjectID, member domain.WorkspaceMember) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":          workspaceID,
			"members.user": bson.M{"$ne": member.UserID},
		},
		bson.M{
			"$push": bson.M{"members": member},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleMembers
	}
	return nil
}

// RemoveMember deletes one member. The filter re-checks that the target
// is present and is not the owner.
func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": workspaceID,
			"members": bson.M{"$elemMatch": bson.M{
				"user": userID,
				"role": bson.M{"$ne": domain.RoleOwner},
			}},
		},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user": userID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleMembers
	}
	return nil
}

// UpdateMemberRole sets one member's role. The filter re-checks that the
// target is present and is not the owner; the positional operator then
// touches only the matched array element.
func (r *WorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role domain.WorkspaceRole) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": workspaceID,
			"members": bson.M{"$elemMatch": bson.M{
				"user": userID,
				"role": bson.M{"$ne": domain.RoleOwner},
			}},
		},
		bson.M{
			"$set": bson.M{
				"members.$.role": role,
				"updatedAt":      time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleMembers
	}
	return nil
}
