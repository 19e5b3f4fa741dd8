package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/internal/services"
)

// ItemHandler はInbox/Backlog関連のハンドラーを管理します。
type ItemHandler struct {
	itemService *services.ItemService
	timeout     time.Duration
}

// NewItemHandler は新しいItemHandlerを作成します。
func NewItemHandler(itemService *services.ItemService, timeout time.Duration) *ItemHandler {
	return &ItemHandler{itemService: itemService, timeout: timeout}
}

// itemID はパスパラメータのIDを検証します。
func itemID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return "", false
	}
	return id, true
}

// parseDay は日付の入力を解釈します。省略された場合は nil です。
func (h *ItemHandler) parseDay(c *gin.Context, input *string) (*time.Time, bool) {
	if input == nil {
		return nil, true
	}
	day, err := h.itemService.ParseDay(*input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return nil, false
	}
	return day, true
}

// ListInboxHandler は指定日 (省略時は今日) のInboxを返します。
func (h *ItemHandler) ListInboxHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	day, ok := h.parseDay(c, &date)
	if !ok {
		return
	}
	if day == nil {
		today := h.itemService.Today()
		day = &today
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	items, err := h.itemService.ListInboxForDate(ctx, userID, *day)
	if err != nil {
		writeError(c, err, "Failed to fetch inbox")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateInboxItemHandler はInboxにItemを追加します。
func (h *ItemHandler) CreateInboxItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	day, ok := h.parseDay(c, req.Date)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	created, err := h.itemService.CreateInboxItem(ctx, userID, req.Title, day)
	if err != nil {
		writeError(c, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListBacklogHandler はBacklogを新しい順に返します。
func (h *ItemHandler) ListBacklogHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	items, err := h.itemService.ListBacklog(ctx, userID)
	if err != nil {
		writeError(c, err, "Failed to fetch backlog")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateBacklogItemHandler はBacklogにItemを追加します。
func (h *ItemHandler) CreateBacklogItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	created, err := h.itemService.CreateBacklogItem(ctx, userID, req.Title)
	if err != nil {
		writeError(c, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetItemHandler は指定IDのItemを返します。
func (h *ItemHandler) GetItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	found, err := h.itemService.GetItem(ctx, userID, id)
	if err != nil {
		writeError(c, err, "Failed to fetch item")
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateItemHandler はItemを部分更新します。
func (h *ItemHandler) UpdateItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	patch := services.ItemPatch{Title: req.Title, Order: req.Order}
	if req.Status != nil {
		status, valid := models.ParseStatus(*req.Status)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		patch.Status = &status
	}
	if req.Date != nil {
		day, ok := h.parseDay(c, req.Date)
		if !ok {
			return
		}
		if day == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": "date must not be empty"})
			return
		}
		patch.DueDate = day
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	updated, err := h.itemService.UpdateItem(ctx, userID, id, patch)
	if err != nil {
		writeError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CycleItemHandler はステータスを次に進めます。
func (h *ItemHandler) CycleItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	updated, err := h.itemService.CycleStatus(ctx, userID, id)
	if err != nil {
		writeError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MoveToInboxHandler はBacklogのItemをInboxに移動します。ボディは省略できます。
func (h *ItemHandler) MoveToInboxHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req models.MoveToInboxRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
	}
	day, ok := h.parseDay(c, req.Date)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	moved, err := h.itemService.MoveToInbox(ctx, userID, id, day)
	if err != nil {
		writeError(c, err, "Failed to move item")
		return
	}
	c.JSON(http.StatusOK, moved)
}

// MoveToBacklogHandler はInboxのItemをBacklogに移動します。
func (h *ItemHandler) MoveToBacklogHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	moved, err := h.itemService.MoveToBacklog(ctx, userID, id)
	if err != nil {
		writeError(c, err, "Failed to move item")
		return
	}
	c.JSON(http.StatusOK, moved)
}

// DeleteItemHandler はItemを論理削除します。
func (h *ItemHandler) DeleteItemHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.itemService.SoftDeleteItem(ctx, userID, id); err != nil {
		writeError(c, err, "Failed to delete item")
		return
	}
	c.Status(http.StatusNoContent)
}
