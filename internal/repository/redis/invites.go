package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	inviteCodePrefix = "invite:"
)

// InviteCodeStore holds opaque self-join codes for workspace invite
// links. A code maps to one workspace and expires after the TTL; the
// role granted on join is always the default member role, decided by
// the caller.
type InviteCodeStore struct {
	client *Client
	ttl    time.Duration
}

// NewInviteCodeStore creates a new invite code store
func NewInviteCodeStore(client *Client, ttl time.Duration) *InviteCodeStore {
	return &InviteCodeStore{client: client, ttl: ttl}
}

// Generate creates a fresh code for the workspace
func (s *InviteCodeStore) Generate(ctx context.Context, workspaceID primitive.ObjectID) (string, error) {
	code := uuid.NewString()
	key := fmt.Sprintf("%s%s", inviteCodePrefix, code)

	if err := s.client.rdb.Set(ctx, key, workspaceID.Hex(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store invite code: %w", err)
	}
	return code, nil
}

// Resolve looks up the workspace a code points at. The second return is
// false for unknown or expired codes.
func (s *InviteCodeStore) Resolve(ctx context.Context, code string) (primitive.ObjectID, bool, error) {
	key := fmt.Sprintf("%s%s", inviteCodePrefix, code)

	hex, err := s.client.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return primitive.NilObjectID, false, nil
		}
		return primitive.NilObjectID, false, fmt.Errorf("failed to resolve invite code: %w", err)
	}

	workspaceID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("corrupt invite code value: %w", err)
	}
	return workspaceID, true, nil
}

// Revoke deletes a code before its TTL expires
func (s *InviteCodeStore) Revoke(ctx context.Context, code string) error {
	key := fmt.Sprintf("%s%s", inviteCodePrefix, code)
	return s.client.rdb.Del(ctx, key).Err()
}
