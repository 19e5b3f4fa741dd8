package services

import (
	"context"
	"fmt"
	"strings"

	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/internal/repositories"
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SignIn はIDプロバイダーから得たユーザーを登録または更新して返します。
func (s *UserService) SignIn(ctx context.Context, provider string, identity models.Identity) (*models.User, error) {
	identity.Subject = strings.TrimSpace(identity.Subject)
	identity.Email = strings.TrimSpace(identity.Email)
	if identity.Subject == "" || identity.Email == "" {
		return nil, fmt.Errorf("%w: identity requires subject and email", models.ErrValidation)
	}
	return s.userRepo.Upsert(ctx, provider, identity)
}

// GetUser はIDでユーザーを取得します。
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
