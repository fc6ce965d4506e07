package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/domain"
)

// Token kinds. All three token flavors are signed with the same secret,
// so each validator checks the kind claim and rejects the other two.
const (
	typAccess     = "access"
	typRefresh    = "refresh"
	purposeInvite = "workspace-invite"
)

// Claims represents access token claims
type Claims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// InviteClaims represents workspace invite token claims. The token binds
// a resolved invitee to one workspace and one role; it is single-purpose
// and rejected on any other path.
type InviteClaims struct {
	UserID      string `json:"sub"`
	WorkspaceID string `json:"workspace"`
	Role        string `json:"role"`
	Purpose     string `json:"purpose"`
	jwt.RegisteredClaims
}

// Invite is a validated workspace invite.
type Invite struct {
	UserID      primitive.ObjectID
	WorkspaceID primitive.ObjectID
	Role        domain.WorkspaceRole
}

// JWTManager handles JWT token operations
type JWTManager struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	inviteTokenTTL  time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTTL, refreshTTL, inviteTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:          []byte(secret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		inviteTokenTTL:  inviteTTL,
	}
}

// GenerateAccessToken generates a new access token
func (m *JWTManager) GenerateAccessToken(userID primitive.ObjectID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID.Hex(),
		Email:     email,
		TokenType: typAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "teamnest",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateRefreshToken generates a new refresh token
func (m *JWTManager) GenerateRefreshToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		TokenType: typRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "teamnest",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateTokenPair generates both access and refresh tokens
func (m *JWTManager) GenerateTokenPair(userID primitive.ObjectID, email string) (accessToken, refreshToken string, expiresIn int64, err error) {
	accessToken, err = m.GenerateAccessToken(userID, email)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = m.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresIn = int64(m.accessTokenTTL.Seconds())

	return accessToken, refreshToken, expiresIn, nil
}

// GenerateInviteToken signs an invite for userID to join workspaceID
// with the given role.
func (m *JWTManager) GenerateInviteToken(userID, workspaceID primitive.ObjectID, role domain.WorkspaceRole) (string, error) {
	now := time.Now()
	claims := InviteClaims{
		UserID:      userID.Hex(),
		WorkspaceID: workspaceID.Hex(),
		Role:        string(role),
		Purpose:     purposeInvite,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.inviteTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "teamnest",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateAccessToken validates an access token and returns the claims
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != typAccess {
		return nil, errors.New("not an access token")
	}

	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns the user ID
func (m *JWTManager) ValidateRefreshToken(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &refreshClaims{}, m.keyFunc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*refreshClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, errors.New("invalid token")
	}
	if claims.TokenType != typRefresh {
		return primitive.NilObjectID, errors.New("not a refresh token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user ID in token: %w", err)
	}

	return userID, nil
}

// ValidateInviteToken validates an invite token and returns the invite.
func (m *JWTManager) ValidateInviteToken(tokenString string) (*Invite, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, m.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Purpose != purposeInvite {
		return nil, errors.New("not an invite token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}
	workspaceID, err := primitive.ObjectIDFromHex(claims.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace ID in token: %w", err)
	}

	role := domain.WorkspaceRole(claims.Role)
	if !role.Valid() || role == domain.RoleOwner {
		return nil, errors.New("invalid role in token")
	}

	return &Invite{UserID: userID, WorkspaceID: workspaceID, Role: role}, nil
}

// AccessTokenTTL returns the access token TTL
func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.accessTokenTTL
}

func (m *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}
