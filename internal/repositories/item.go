package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inbox-todo/backend/internal/models"
)

// ItemRepository はItemのデータベース操作を行うための構造体です。
// 論理削除されたItemはGORMのスコープで全ての検索から除外されます。
type ItemRepository struct {
	DB *gorm.DB
}

// NewItemRepository は新しいItemRepositoryインスタンスを作成します。
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

// Create は新しいItemを挿入します。
func (r *ItemRepository) Create(ctx context.Context, it *models.Item) error {
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		return fmt.Errorf("could not insert item: %w", err)
	}
	return nil
}

// FindOwned は ownerID が所有する削除されていないItemを取得します。
func (r *ItemRepository) FindOwned(ctx context.Context, ownerID uint, id string) (*models.Item, error) {
	var it models.Item
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("could not query item: %w", err)
	}
	return &it, nil
}

// Save は可変フィールドをまとめて更新します。nil のフィールドは NULL になります。
func (r *ItemRepository) Save(ctx context.Context, it *models.Item) error {
	result := r.DB.WithContext(ctx).Model(it).
		Where("user_id = ?", it.UserID).
		Select("Title", "DueDate", "Status", "CompletedAt", "Order").
		Updates(it)
	if result.Error != nil {
		return fmt.Errorf("could not update item: %w", result.Error)
	}
	return nil
}

// SoftDelete はItemの deleted_at を設定します。
func (r *ItemRepository) SoftDelete(ctx context.Context, ownerID uint, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Item{})
	if result.Error != nil {
		return fmt.Errorf("could not delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MaxInboxOrder は [start, next) に期日があるItemの最大の並び順を返します。
// 該当するItemがない場合は -1 です。
func (r *ItemRepository) MaxInboxOrder(ctx context.Context, ownerID uint, start, next time.Time) (int, error) {
	return r.maxOrder(r.DB.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", ownerID, start, next))
}

// MaxBacklogOrder はBacklogのItemの最大の並び順を返します。
func (r *ItemRepository) MaxBacklogOrder(ctx context.Context, ownerID uint) (int, error) {
	return r.maxOrder(r.DB.WithContext(ctx).
		Where("user_id = ? AND due_date IS NULL", ownerID))
}

func (r *ItemRepository) maxOrder(tx *gorm.DB) (int, error) {
	var n int
	err := tx.Model(&models.Item{}).Select("COALESCE(MAX(sort_order), -1)").Row().Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("could not query max order: %w", err)
	}
	return n, nil
}

// FindInboxForDay は [start, next) の日のInboxに表示するItemを並び順の昇順で返します。
func (r *ItemRepository) FindInboxForDay(ctx context.Context, ownerID uint, start, next time.Time) ([]models.Item, error) {
	visible := r.DB.Where("due_date >= ?", start).
		Or("due_date < ? AND status <> ?", start, models.StoredCompleted).
		Or("completed_at >= ? AND completed_at < ?", start, next)

	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date < ?", ownerID, next).
		Where(visible).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("could not query inbox items: %w", err)
	}
	return items, nil
}

// FindBacklog はBacklogのItemを並び順の降順 (新しいものが先頭) で返します。
func (r *ItemRepository) FindBacklog(ctx context.Context, ownerID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND due_date IS NULL", ownerID).
		Order("sort_order DESC").Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("could not query backlog items: %w", err)
	}
	return items, nil
}
