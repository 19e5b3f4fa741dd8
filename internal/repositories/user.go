// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inbox-todo/backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository はデータベース操作を行うための構造体です。
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Upsert はIDプロバイダーのユーザーを登録し、既に存在する場合はメールアドレスと名前を更新します。
func (r *UserRepository) Upsert(ctx context.Context, provider string, identity models.Identity) (*models.User, error) {
	u := models.User{
		Provider: provider,
		Subject:  identity.Subject,
		Email:    identity.Email,
		Name:     identity.Name,
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		return nil, fmt.Errorf("could not upsert user: %w", err)
	}

	// 衝突時に返るIDはドライバーによって異なるため、読み直す
	return r.FindByProviderSubject(ctx, provider, identity.Subject)
}

// FindByProviderSubject はプロバイダーとサブジェクトでユーザーを検索します。
func (r *UserRepository) FindByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Where("provider = ? AND subject = ?", provider, subject).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// FindByID はIDでユーザーを検索します。
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
