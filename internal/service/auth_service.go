package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gradehub/gradehub-backend/internal/config"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionRevoked     = errors.New("session revoked")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64          `json:"user_id"`
	Role   model.RoleKind `json:"role,omitempty"`
}

// AuthService handles authentication, JWT, and session management. A login
// registers its token ID in Redis under the user's session key; a later
// login overwrites it, revoking the earlier token.
type AuthService struct {
	cfg   *config.Config
	rdb   *redis.Client
	users *repository.UserRepository
	roles *repository.RoleRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, users *repository.UserRepository, roles *repository.RoleRepository) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, users: users, roles: roles}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials and returns a signed token with the user's
// resolved role.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	role, err := s.roles.GetRoleOf(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	token, err := s.generateToken(ctx, user.ID, role.Kind)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Role: role}, nil
}

// Logout drops the user's active session, invalidating outstanding tokens.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, config.SessionKey.UserSessionKey(userID)).Err()
}

// Myself resolves the role profile of an authenticated user.
func (s *AuthService) Myself(ctx context.Context, userID int64) (*model.Role, error) {
	role, err := s.roles.GetRoleOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

func (s *AuthService) generateToken(ctx context.Context, userID int64, role model.RoleKind) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: userID,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	// Register the session with the token's lifetime. An earlier session is
	// overwritten, so only the newest token passes validation.
	key := config.SessionKey.UserSessionKey(userID)
	if err := s.rdb.Set(ctx, key, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, checks it against the active
// session, and returns the claims.
func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	jti, err := s.rdb.Get(ctx, config.SessionKey.UserSessionKey(claims.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("check session: %w", err)
	}
	if jti != claims.ID {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}
