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

// ProjectRepository handles project data access
type ProjectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection("projects")}
}

// Create inserts a new project and fills in the generated ID
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	res, err := r.coll.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		project.ID = id
	}
	return nil
}

// GetByID retrieves a project by ID, nil if not found
func (r *ProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListByWorkspace retrieves the workspace's non-archived projects,
// newest first.
func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{
		"workspace":  workspaceID,
		"isArchived": false,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []domain.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update to a project
func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.ProjectUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.StartDate != nil {
		set["startDate"] = *update.StartDate
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.Progress != nil {
		set["progress"] = *update.Progress
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetArchived flips the soft-delete flag
func (r *ProjectRepository) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"isArchived": archived,
			"updatedAt":  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
