package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"showup/internal/delivery/http/helpers"
	"showup/internal/delivery/http/middleware"
	"showup/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	signUpErr error
	loginErr  error
	getErr    error
	user      *domain.User
	token     string

	lastEmail    string
	lastPassword string
	lastName     string
	lastGetID    string
}

func (f *fakeUserService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.user, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.lastGetID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantErrCode    string
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@example.com","password":"password123","name":"Alice"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing email",
			body:           `{"password":"password123"}`,
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "short password",
			body:           `{"email":"alice@example.com","password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantErrCode:    helpers.ErrCodeBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"alice@example.com","password":"password123"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantErrCode:    helpers.ErrCodeConflict,
			wantBodySubstr: "already registered",
		},
		{
			name:        "service error",
			body:        `{"email":"alice@example.com","password":"password123"}`,
			fakeErr:     errors.New("db error"),
			wantStatus:  http.StatusInternalServerError,
			wantErrCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{signUpErr: tt.fakeErr, user: &domain.User{ID: "u-1", Email: "alice@example.com"}}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "alice@example.com", fake.lastEmail)
				assert.Equal(t, "Alice", fake.lastName)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				if tt.wantBodySubstr != "" {
					assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
				}
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@example.com","password":"password123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "invalid credentials",
			body:        `{"email":"alice@example.com","password":"wrong-password"}`,
			fakeErr:     errors.New("invalid credentials"),
			wantStatus:  http.StatusUnauthorized,
			wantErrCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:        "missing password",
			body:        `{"email":"alice@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{loginErr: tt.fakeErr, token: "signed-token"}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var login LoginResponse
				require.NoError(t, json.Unmarshal(dataBytes, &login))
				assert.Equal(t, "signed-token", login.Token)
				assert.Equal(t, "Bearer", login.TokenType)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
			}
		})
	}
}

func TestAuthController_Me(t *testing.T) {
	t.Run("returns profile", func(t *testing.T) {
		fake := &fakeUserService{user: &domain.User{ID: "user-123", Email: "alice@example.com", Name: "Alice"}}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-123", fake.lastGetID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeUserService{})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rr := httptest.NewRecorder()

		ctrl.Me(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("user vanished", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeUserService{getErr: domain.ErrUserNotFound})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "ghost"))
		rr := httptest.NewRecorder()

		ctrl.Me(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
