package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/identity"
	"parkshare/internal/repository"

	"gopkg.in/guregu/null.v4"
)

type UserService struct {
	users    repository.UserRepository
	verifier identity.Verifier
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, verifier identity.Verifier, logger *slog.Logger) *UserService {
	return &UserService{users: users, verifier: verifier, logger: logger}
}

const msgUserNotFound = "User not found"

func (s *UserService) Register(ctx context.Context, dto domain.RegisterUserDTO) (*domain.User, error) {
	if err := s.verifier.LookupIdentity(ctx, dto.FirebaseUID); err != nil {
		if errors.Is(err, identity.ErrUnknownIdentity) {
			return nil, invalidInput("Invalid Firebase UID")
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	existing, err := s.users.FindByUID(ctx, dto.FirebaseUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, conflict("User already exists")
	}

	role := dto.Role
	if role == "" {
		role = domain.RoleFinder
	}
	if !role.Valid() {
		return nil, invalidInput("Invalid role")
	}

	now := time.Now().UTC()
	user := &domain.User{
		UID:             dto.FirebaseUID,
		Email:           dto.Email,
		Name:            dto.Name,
		PhoneNumber:     dto.PhoneNumber,
		ProfileImageURL: dto.ProfileImageURL,
		Role:            role,
		CreatedAt:       now,
		LastLoginAt:     null.TimeFrom(now),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, conflict("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", "uid", created.UID, "role", created.Role)
	return created, nil
}

func (s *UserService) Login(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.findUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, uid, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt = null.TimeFrom(now)
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	return s.findUser(ctx, uid)
}

func (s *UserService) UpdateProfile(ctx context.Context, uid string, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, invalidInput("No fields to update")
	}
	if patch.Role.Valid && !domain.UserRole(patch.Role.String).Valid() {
		return nil, invalidInput("Invalid role")
	}
	user, err := s.findUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	merged := domain.ApplyUserPatch(*user, patch)
	updated, err := s.users.Update(ctx, &merged)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *UserService) DeleteProfile(ctx context.Context, uid string) error {
	if err := s.users.Delete(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(msgUserNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info("user deleted", "uid", uid)
	return nil
}

func (s *UserService) findUser(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
