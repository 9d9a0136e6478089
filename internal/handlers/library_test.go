package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/stretchr/testify/assert"
)

var added = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testActivity(id, bookID int64, status string) models.ActivityDB {
	return models.ActivityDB{
		ActivityID: id,
		UserID:     1,
		BookID:     bookID,
		Status:     status,
		DateAdded:  added,
		Book:       models.BookDB{BookID: bookID, Title: "Dune"},
	}
}

func TestLibraryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockLibraryReader(ctrl)
		mockSvc.EXPECT().ListForUser(gomock.Any(), "alice").Return([]models.ActivityDB{
			testActivity(1, 10, models.StatusReading),
			testActivity(2, 11, models.StatusWishlist),
		}, nil)

		rr := serve(NewLibraryHandler(mockSvc), http.MethodGet, "/users/{username}/library", "/users/alice/library", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []ActivityResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		assert.Equal(t, models.StatusReading, resp[0].Status)
		assert.Equal(t, int64(11), resp[1].Book.ID)
		assert.True(t, added.Equal(resp[0].DateAdded))
	})

	t.Run("empty library", func(t *testing.T) {
		mockSvc := NewMockLibraryReader(ctrl)
		mockSvc.EXPECT().ListForUser(gomock.Any(), "alice").Return([]models.ActivityDB{}, nil)

		rr := serve(NewLibraryHandler(mockSvc), http.MethodGet, "/users/{username}/library", "/users/alice/library", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		mockSvc := NewMockLibraryReader(ctrl)
		mockSvc.EXPECT().ListForUser(gomock.Any(), "ghost").Return(nil, services.ErrUserNotFound)

		rr := serve(NewLibraryHandler(mockSvc), http.MethodGet, "/users/{username}/library", "/users/ghost/library", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLibraryEntryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const pattern = "/users/{username}/library/{bookID}"

	t.Run("found", func(t *testing.T) {
		activity := testActivity(1, 10, models.StatusCompleted)
		mockSvc := NewMockLibraryReader(ctrl)
		mockSvc.EXPECT().GetLibraryEntry(gomock.Any(), "alice", int64(10)).Return(&activity, nil)

		rr := serve(NewLibraryEntryHandler(mockSvc), http.MethodGet, pattern, "/users/alice/library/10", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp ActivityResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.StatusCompleted, resp.Status)
		assert.Equal(t, "Dune", resp.Book.Title)
	})

	t.Run("not in library", func(t *testing.T) {
		mockSvc := NewMockLibraryReader(ctrl)
		mockSvc.EXPECT().GetLibraryEntry(gomock.Any(), "alice", int64(99)).Return(nil, services.ErrActivityNotFound)

		rr := serve(NewLibraryEntryHandler(mockSvc), http.MethodGet, pattern, "/users/alice/library/99", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Activity not found", decodeError(t, rr).Error)
	})

	t.Run("bad book id", func(t *testing.T) {
		mockSvc := NewMockLibraryReader(ctrl)

		rr := serve(NewLibraryEntryHandler(mockSvc), http.MethodGet, pattern, "/users/alice/library/dune", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
