package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "schooltrip/database/repository/user"
	"schooltrip/models"
	"schooltrip/services/socialauth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrUserNotFound    = errors.New("user not found")
)

// IdentityVerifier validates an external ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*socialauth.UserInfo, error)
}

// TokenGenerator issues session tokens for signed-in users.
type TokenGenerator interface {
	GenerateToken(subject, email, role string) (string, error)
}

type UserService interface {
	SignInWithGoogle(ctx context.Context, payload models.GoogleSignIn) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// DefaultUserService is the production implementation. Verifier may be nil,
// in which case payloads are trusted as already verified by the front end.
type DefaultUserService struct {
	Repo        userRepo.UserRepository
	Verifier    IdentityVerifier
	Tokens      TokenGenerator
	AdminEmails map[string]bool
	Logger      *zap.Logger
}

func NewUserService(repo userRepo.UserRepository, verifier IdentityVerifier, tokens TokenGenerator, adminEmails []string, logger *zap.Logger) *DefaultUserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &DefaultUserService{Repo: repo, Verifier: verifier, Tokens: tokens, AdminEmails: admins, Logger: logger}
}

// SignInWithGoogle upserts the user by email and issues a session token.
// The role is assigned here; any role sent by the client is ignored.
func (s *DefaultUserService) SignInWithGoogle(ctx context.Context, payload models.GoogleSignIn) (*models.AuthResponse, error) {
	identity, err := s.identity(ctx, payload)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	listedAdmin := s.AdminEmails[identity.Email]
	if user == nil {
		role := models.RoleMember
		if listedAdmin {
			role = models.RoleAdmin
		}
		user = &models.User{
			ID:    uuid.NewString(),
			Name:  identity.Name,
			Email: identity.Email,
			Image: identity.Picture,
			Role:  role,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.Logger.Info("New user registered", zap.String("email", user.Email), zap.String("role", user.Role))
	} else {
		user.Image = identity.Picture
		if identity.Name != "" {
			user.Name = identity.Name
		}
		if listedAdmin {
			user.Role = models.RoleAdmin
		}
		if user.Role == "" {
			user.Role = models.RoleMember
		}
		user.UpdatedAt = time.Now()
		if err := s.Repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		s.Logger.Info("User signed in", zap.String("email", user.Email))
	}

	token, err := s.Tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *DefaultUserService) identity(ctx context.Context, payload models.GoogleSignIn) (*socialauth.UserInfo, error) {
	if s.Verifier != nil {
		if payload.Credential == "" {
			return nil, fmt.Errorf("%w: credential is required", ErrInvalidIdentity)
		}
		info, err := s.Verifier.Verify(ctx, payload.Credential)
		if err != nil {
			s.Logger.Warn("Google token rejected", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
		}
		if info.Name == "" {
			info.Name = payload.Name
		}
		if info.Picture == "" {
			info.Picture = payload.Image
		}
		return info, nil
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidIdentity)
	}
	return &socialauth.UserInfo{Email: email, Name: strings.TrimSpace(payload.Name), Picture: payload.Image}, nil
}
