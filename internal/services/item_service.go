package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inbox-todo/backend/internal/item"
	"inbox-todo/backend/internal/models"
)

// ItemStore はItemServiceが使うストレージです。
type ItemStore interface {
	Create(ctx context.Context, it *models.Item) error
	FindOwned(ctx context.Context, ownerID uint, id string) (*models.Item, error)
	Save(ctx context.Context, it *models.Item) error
	SoftDelete(ctx context.Context, ownerID uint, id string) error
	MaxInboxOrder(ctx context.Context, ownerID uint, start, next time.Time) (int, error)
	MaxBacklogOrder(ctx context.Context, ownerID uint) (int, error)
	FindInboxForDay(ctx context.Context, ownerID uint, start, next time.Time) ([]models.Item, error)
	FindBacklog(ctx context.Context, ownerID uint) ([]models.Item, error)
}

// ItemPatch はItemの部分更新です。nil のフィールドは変更しません。
type ItemPatch struct {
	Title   *string
	Status  *models.Status
	DueDate *time.Time
	Order   *int
}

// ItemService はInbox/Backlogのビジネスロジックを扱います。
// 全ての操作は呼び出し元のユーザーID (ownerID) を明示的に受け取ります。
type ItemService struct {
	store ItemStore
	log   *slog.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewItemService は新しいItemServiceを作成します。
func NewItemService(store ItemStore, log *slog.Logger, loc *time.Location) *ItemService {
	if loc == nil {
		loc = time.UTC
	}
	return &ItemService{store: store, log: log, loc: loc, now: time.Now}
}

// WithClock は現在時刻の取得方法を差し替えます。
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

// Location は日付の境界に使うタイムゾーンを返します。
func (s *ItemService) Location() *time.Location {
	return s.loc
}

// Today は今日の0時を返します。
func (s *ItemService) Today() time.Time {
	return item.StartOfDay(s.now(), s.loc)
}

// ParseDay は日付の入力を解釈します。空の場合は nil です。
func (s *ItemService) ParseDay(input string) (*time.Time, error) {
	return item.ParseDay(input, s.now(), s.loc)
}

// fail は操作の失敗をログに記録し、OperationErrorにして返します。
func (s *ItemService) fail(op string, err error, args ...any) error {
	attrs := append([]any{"op", op, "error", err}, args...)
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrValidation) {
		s.log.Warn("item operation rejected", attrs...)
	} else {
		s.log.Error("item operation failed", attrs...)
	}
	return &OperationError{Op: op, Err: err}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", models.ErrValidation)
	}
	return title, nil
}

// ListInboxForDate は day のInboxに表示するItemを並び順の昇順で返します。
func (s *ItemService) ListInboxForDate(ctx context.Context, ownerID uint, day time.Time) ([]models.ItemView, error) {
	const op = "list inbox"
	start, next := item.Bounds(day, s.loc)

	items, err := s.store.FindInboxForDay(ctx, ownerID, start, next)
	if err != nil {
		return nil, s.fail(op, err, "owner_id", ownerID, "date", item.FormatDay(start, s.loc))
	}

	views := make([]models.ItemView, 0, len(items))
	for i := range items {
		views = append(views, item.ViewOn(&items[i], start, s.loc))
	}
	return views, nil
}

// ListBacklog はBacklogのItemを並び順の降順で返します。
func (s *ItemService) ListBacklog(ctx context.Context, ownerID uint) ([]models.ItemView, error) {
	const op = "list backlog"
	items, err := s.store.FindBacklog(ctx, ownerID)
	if err != nil {
		return nil, s.fail(op, err, "owner_id", ownerID)
	}

	views := make([]models.ItemView, 0, len(items))
	for i := range items {
		views = append(views, item.ToView(&items[i], s.loc))
	}
	return views, nil
}

// GetItem は1件のItemを返します。
func (s *ItemService) GetItem(ctx context.Context, ownerID uint, id string) (models.ItemView, error) {
	const op = "get item"
	it, err := s.store.FindOwned(ctx, ownerID, id)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return item.ToView(it, s.loc), nil
}

// CreateInboxItem は day (省略時は今日) のInboxにItemを追加します。
func (s *ItemService) CreateInboxItem(ctx context.Context, ownerID uint, title string, day *time.Time) (models.ItemView, error) {
	const op = "create inbox item"
	title, err := validateTitle(title)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID)
	}

	due := s.Today()
	if day != nil {
		due = *day
	}
	start, next := item.Bounds(due, s.loc)

	maxOrder, err := s.store.MaxInboxOrder(ctx, ownerID, start, next)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "title", title)
	}

	it := &models.Item{
		UserID:  ownerID,
		Title:   title,
		DueDate: &start,
		Status:  models.StoredNotStarted,
		Order:   maxOrder + 1,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "title", title)
	}
	return item.ToView(it, s.loc), nil
}

// CreateBacklogItem はBacklogの先頭にItemを追加します。
func (s *ItemService) CreateBacklogItem(ctx context.Context, ownerID uint, title string) (models.ItemView, error) {
	const op = "create backlog item"
	title, err := validateTitle(title)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID)
	}

	maxOrder, err := s.store.MaxBacklogOrder(ctx, ownerID)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "title", title)
	}

	it := &models.Item{
		UserID: ownerID,
		Title:  title,
		Status: models.StoredNotStarted,
		Order:  maxOrder + 1,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "title", title)
	}
	return item.ToView(it, s.loc), nil
}

// UpdateItem はItemを部分更新します。
// 入力が不正な場合は何も変更せずに ErrValidation を返します。
func (s *ItemService) UpdateItem(ctx context.Context, ownerID uint, id string, patch ItemPatch) (models.ItemView, error) {
	const op = "update item"
	var title string
	if patch.Title != nil {
		t, err := validateTitle(*patch.Title)
		if err != nil {
			return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
		}
		title = t
	}
	if patch.Status != nil && !patch.Status.Valid() {
		err := fmt.Errorf("%w: unknown status %q", models.ErrValidation, *patch.Status)
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	it, err := s.store.FindOwned(ctx, ownerID, id)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	if patch.DueDate != nil && it.InBacklog() {
		err := fmt.Errorf("%w: backlog items have no date, move the item to the inbox instead", models.ErrValidation)
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	if patch.Title != nil {
		it.Title = title
	}
	if patch.DueDate != nil {
		start, _ := item.Bounds(*patch.DueDate, s.loc)
		it.DueDate = &start
	}
	if patch.Order != nil {
		it.Order = *patch.Order
	}
	if patch.Status != nil {
		item.ApplyStatus(it, *patch.Status, s.now())
	}

	if err := s.store.Save(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return item.ToView(it, s.loc), nil
}

// CycleStatus はステータスを not_started → in_progress → completed の順に進めます。
func (s *ItemService) CycleStatus(ctx context.Context, ownerID uint, id string) (models.ItemView, error) {
	const op = "cycle item status"
	it, err := s.store.FindOwned(ctx, ownerID, id)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	item.ApplyStatus(it, item.Next(it.Status.View()), s.now())
	if err := s.store.Save(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return item.ToView(it, s.loc), nil
}

// MoveToInbox はBacklogのItemを day (省略時は今日) のInboxの末尾に移動します。
func (s *ItemService) MoveToInbox(ctx context.Context, ownerID uint, id string, day *time.Time) (models.ItemView, error) {
	const op = "move item to inbox"
	it, err := s.store.FindOwned(ctx, ownerID, id)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	if !it.InBacklog() {
		err := fmt.Errorf("%w: item is not in the backlog", models.ErrNotFound)
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	due := s.Today()
	if day != nil {
		due = *day
	}
	start, next := item.Bounds(due, s.loc)

	maxOrder, err := s.store.MaxInboxOrder(ctx, ownerID, start, next)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	item.MoveToInbox(it, start, maxOrder+1)
	if err := s.store.Save(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return item.ToView(it, s.loc), nil
}

// MoveToBacklog はInboxのItemをBacklogの先頭に移動します。ステータスは保持します。
func (s *ItemService) MoveToBacklog(ctx context.Context, ownerID uint, id string) (models.ItemView, error) {
	const op = "move item to backlog"
	it, err := s.store.FindOwned(ctx, ownerID, id)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	if it.InBacklog() {
		err := fmt.Errorf("%w: item is not in the inbox", models.ErrNotFound)
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	maxOrder, err := s.store.MaxBacklogOrder(ctx, ownerID)
	if err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}

	item.MoveToBacklog(it, maxOrder+1)
	if err := s.store.Save(ctx, it); err != nil {
		return models.ItemView{}, s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return item.ToView(it, s.loc), nil
}

// SoftDeleteItem はItemを論理削除します。削除済みのItemは ErrNotFound になります。
func (s *ItemService) SoftDeleteItem(ctx context.Context, ownerID uint, id string) error {
	const op = "delete item"
	if _, err := s.store.FindOwned(ctx, ownerID, id); err != nil {
		return s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	if err := s.store.SoftDelete(ctx, ownerID, id); err != nil {
		return s.fail(op, err, "owner_id", ownerID, "id", id)
	}
	return nil
}
