package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/testutil"
)

func decodeItems(t *testing.T, body []byte) []models.ItemView {
	t.Helper()
	var items []models.ItemView
	require.NoError(t, json.Unmarshal(body, &items))
	return items
}

func decodeItem(t *testing.T, body []byte) models.ItemView {
	t.Helper()
	var v models.ItemView
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestCreateInboxItem_Success(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	created := testutil.CreateInboxItem(t, r, token, "Buy milk", "")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, models.StatusNotStarted, created.Status)
	require.NotNil(t, created.Date)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), *created.Date)
	assert.Equal(t, 0, created.Order)
	assert.Nil(t, created.CompletedAt)
}

func TestCreateInboxItem_BlankTitle(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/inbox", token, map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/inbox", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/inbox", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeItems(t, w.Body.Bytes()))
}

func TestCreateInboxItem_InvalidDate(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/inbox", token, map[string]any{"title": "x", "date": "someday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date")
}

func TestListInbox_ForDate(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	testutil.CreateInboxItem(t, r, token, "X", "2030-05-01")
	testutil.CreateInboxItem(t, r, token, "Y", "2030-05-01")
	testutil.CreateInboxItem(t, r, token, "later", "2030-05-02")

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/inbox?date=2030-05-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeItems(t, w.Body.Bytes())
	require.Len(t, items, 2)
	assert.Equal(t, "X", items[0].Title)
	assert.Equal(t, "Y", items[1].Title)

	// 未完了のItemは翌日にも繰り越される
	w = testutil.DoJSON(t, r, http.MethodGet, "/api/inbox?date=2030-05-02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeItems(t, w.Body.Bytes()), 3)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/inbox?date=not-a-date", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBacklog_CreateAndList(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	a := testutil.CreateBacklogItem(t, r, token, "A")
	assert.Nil(t, a.Date)
	testutil.CreateBacklogItem(t, r, token, "B")

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/backlog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeItems(t, w.Body.Bytes())
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Title)
	assert.Equal(t, "A", items[1].Title)
}

func TestGetItem_InvalidAndUnknownID(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/items/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID format")

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/items/00000000-0000-0000-0000-000000000000", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Item not found")
}

func TestUpdateItem_StatusAndTitle(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	created := testutil.CreateInboxItem(t, r, token, "Write report", "")

	w := testutil.DoJSON(t, r, http.MethodPatch, "/api/items/"+created.ID, token, map[string]any{
		"title":  "Write final report",
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeItem(t, w.Body.Bytes())
	assert.Equal(t, "Write final report", updated.Title)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	w = testutil.DoJSON(t, r, http.MethodPatch, "/api/items/"+created.ID, token, map[string]any{"status": "waiting"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")

	w = testutil.DoJSON(t, r, http.MethodPatch, "/api/items/"+created.ID, token, map[string]any{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/items/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Write final report", decodeItem(t, w.Body.Bytes()).Title)
}

func TestCycleItem(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	created := testutil.CreateInboxItem(t, r, token, "cycle", "")

	for _, want := range []models.Status{models.StatusInProgress, models.StatusCompleted, models.StatusNotStarted} {
		w := testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/cycle", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, decodeItem(t, w.Body.Bytes()).Status)
	}
}

func TestMoveBetweenLists(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	created := testutil.CreateInboxItem(t, r, token, "move me", "")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/cycle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/backlog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	moved := decodeItem(t, w.Body.Bytes())
	assert.Nil(t, moved.Date)
	assert.Equal(t, models.StatusInProgress, moved.Status)

	// Backlogにある状態でもう一度Backlogへは移動できない
	w = testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/backlog", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/inbox", token, map[string]any{"date": "2030-05-01"})
	require.Equal(t, http.StatusOK, w.Code)
	moved = decodeItem(t, w.Body.Bytes())
	require.NotNil(t, moved.Date)
	assert.Equal(t, "2030-05-01", *moved.Date)
	assert.Equal(t, models.StatusNotStarted, moved.Status)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/backlog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// ボディなしの場合は今日になる
	w = testutil.DoJSON(t, r, http.MethodPost, "/api/items/"+created.ID+"/inbox", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), *decodeItem(t, w.Body.Bytes()).Date)
}

func TestDeleteItem_Twice(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	created := testutil.CreateBacklogItem(t, r, token, "delete me")

	w := testutil.DoJSON(t, r, http.MethodDelete, "/api/items/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/items/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/backlog", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeItems(t, w.Body.Bytes()))
}

func TestItems_IsolatedBetweenUsers(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	alice, err := testutil.LoginAndGetToken(t, r, "alice@example.com")
	require.NoError(t, err)
	bob, err := testutil.LoginAndGetToken(t, r, "bob@example.com")
	require.NoError(t, err)

	created := testutil.CreateInboxItem(t, r, alice, "alice's", "")

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/items/" + created.ID},
		{http.MethodPatch, "/api/items/" + created.ID},
		{http.MethodPost, "/api/items/" + created.ID + "/cycle"},
		{http.MethodPost, "/api/items/" + created.ID + "/backlog"},
		{http.MethodDelete, "/api/items/" + created.ID},
	} {
		var payload any
		if req.method == http.MethodPatch {
			payload = map[string]any{"title": "mine now"}
		}
		w := testutil.DoJSON(t, r, req.method, req.path, bob, payload)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
	}

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/inbox", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeItems(t, w.Body.Bytes()))

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/items/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice's", decodeItem(t, w.Body.Bytes()).Title)
}
