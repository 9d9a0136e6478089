package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestCreateUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockUserManager)
		expectedCode int
		expected     UserResponse
		expectedErr  string
	}{
		{
			name: "success",
			body: `{"username":"john","password":"secret","full_name":"John Doe"}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().Create(gomock.Any(), "john", "secret", nil, strPtr("John Doe")).
					Return(&models.UserDB{UserID: 1, Username: "john", FullName: strPtr("John Doe"), PasswordHash: "hash"}, nil)
			},
			expectedCode: http.StatusCreated,
			expected:     UserResponse{ID: 1, Username: "john", FullName: strPtr("John Doe")},
		},
		{
			name: "username taken",
			body: `{"username":"john","password":"secret"}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().Create(gomock.Any(), "john", "secret", nil, nil).Return(nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusConflict,
			expectedErr:  "Username already exists",
		},
		{
			name:         "missing username",
			body:         `{"password":"secret"}`,
			mockSetup:    func(m *MockUserManager) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserManager(ctrl)
			tt.mockSetup(mockSvc)

			rr := serve(NewCreateUserHandler(mockSvc), http.MethodPost, "/users", "/users", tt.body)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeError(t, rr).Error)
				return
			}

			var resp UserResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expected, resp)
			assert.NotContains(t, rr.Body.String(), "hash")
		})
	}
}

func TestListUsersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().List(gomock.Any()).Return([]models.UserDB{
			{UserID: 1, Username: "alice"},
			{UserID: 2, Username: "bob"},
		}, nil)

		rr := serve(NewListUsersHandler(mockSvc), http.MethodGet, "/users", "/users", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []UserResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		assert.Equal(t, "bob", resp[1].Username)
	})

	t.Run("empty", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().List(gomock.Any()).Return([]models.UserDB{}, nil)

		rr := serve(NewListUsersHandler(mockSvc), http.MethodGet, "/users", "/users", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

		rr := serve(NewListUsersHandler(mockSvc), http.MethodGet, "/users", "/users", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetUserHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("by username", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().Get(gomock.Any(), "alice").Return(&models.UserDB{UserID: 3, Username: "alice"}, nil)

		rr := serve(NewGetUserHandler(mockSvc), http.MethodGet, "/users/{username}", "/users/alice", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":3,"username":"alice","email":null,"full_name":null}`, rr.Body.String())
	})

	t.Run("by username not found", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().Get(gomock.Any(), "ghost").Return(nil, services.ErrUserNotFound)

		rr := serve(NewGetUserHandler(mockSvc), http.MethodGet, "/users/{username}", "/users/ghost", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeError(t, rr).Error)
	})

	t.Run("by id", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.UserDB{UserID: 3, Username: "alice"}, nil)

		rr := serve(NewGetUserByIDHandler(mockSvc), http.MethodGet, "/users/by-id/{userID}", "/users/by-id/3", "")

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("by id not numeric", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)

		rr := serve(NewGetUserByIDHandler(mockSvc), http.MethodGet, "/users/by-id/{userID}", "/users/by-id/x", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockUserManager)
		expectedCode int
	}{
		{
			name: "set name",
			body: `{"full_name":"Alice Liddell"}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().UpdateFullName(gomock.Any(), int64(1), "alice", strPtr("Alice Liddell")).
					Return(&models.UserDB{UserID: 3, Username: "alice", FullName: strPtr("Alice Liddell")}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "clear name",
			body: `{"full_name":null}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().UpdateFullName(gomock.Any(), int64(1), "alice", nil).
					Return(&models.UserDB{UserID: 3, Username: "alice"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "field missing",
			body:         `{}`,
			mockSetup:    func(m *MockUserManager) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "user not found",
			body: `{"full_name":"x"}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().UpdateFullName(gomock.Any(), int64(1), "alice", strPtr("x")).Return(nil, services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "another user's account",
			body: `{"full_name":"x"}`,
			mockSetup: func(m *MockUserManager) {
				m.EXPECT().UpdateFullName(gomock.Any(), int64(1), "alice", strPtr("x")).Return(nil, services.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserManager(ctrl)
			tt.mockSetup(mockSvc)

			rr := serveAs(aliceClaims, NewUpdateUserHandler(mockSvc), http.MethodPatch, "/users/{username}", "/users/alice", tt.body)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("deleted", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), int64(1), "alice").Return(nil)

		rr := serveAs(aliceClaims, NewDeleteUserHandler(mockSvc), http.MethodDelete, "/users/{username}", "/users/alice", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), int64(1), "ghost").Return(services.ErrUserNotFound)

		rr := serveAs(aliceClaims, NewDeleteUserHandler(mockSvc), http.MethodDelete, "/users/{username}", "/users/ghost", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("another user's account", func(t *testing.T) {
		mockSvc := NewMockUserManager(ctrl)
		mockSvc.EXPECT().Delete(gomock.Any(), int64(1), "bob").Return(services.ErrForbidden)

		rr := serveAs(aliceClaims, NewDeleteUserHandler(mockSvc), http.MethodDelete, "/users/{username}", "/users/bob", "")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Not allowed to modify another user's data", decodeError(t, rr).Error)
	})

	t.Run("no caller", func(t *testing.T) {
		rr := serve(NewDeleteUserHandler(NewMockUserManager(ctrl)), http.MethodDelete, "/users/{username}", "/users/alice", "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})
}
