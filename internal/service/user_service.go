package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/repository/cached"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, bio, profilePicURL string) (*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
}

type userService struct {
	users *cached.UserRepository
}

func NewUserService(users *cached.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name, bio, profilePicURL string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	return s.users.UpdateProfile(ctx, userID, name, strings.TrimSpace(bio), profilePicURL)
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.User{}, nil
	}
	users, err := s.users.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
