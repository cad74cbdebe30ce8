package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/pkg/jwt"
	"github.com/budyakovan/shift-tracker-bot/pkg/redis"
)

// AuthService handles admin login, logout, and token revocation.
// The redis client may be nil; logout then degrades to a no-op revoke.
type AuthService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("admin logged in", zap.Int64("user_id", user.UserID))
	return token, user, nil
}

// Logout revokes the token by blacklisting its ID until expiry.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		s.logger.Warn("redis unavailable, token not blacklisted",
			zap.Int64("user_id", claims.UserID))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.BlacklistToken(ctx, claims.ID, ttl)
}

// IsTokenRevoked reports whether the token ID was blacklisted.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	return s.rdb.IsBlacklisted(ctx, jti)
}

// Me returns the authenticated user's record.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

// SetPassword hashes and stores a user's admin password.
func (s *AuthService) SetPassword(ctx context.Context, userID int64, password, role string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return mapNotFound(err, ErrUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if role != "" {
		user.Role = role
	}
	return s.repo.User.Update(ctx, user)
}
