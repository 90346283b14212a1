package save

import (
	"broker-app/internal/service/account"
	"broker-app/internal/storage"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserCreator struct {
	mock.Mock
}

func (m *MockUserCreator) CreateUser(ctx context.Context, req account.CreateUserRequest) (*storage.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func postUser(c UserCreator, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
	SaveUserAdmin(slog.Default(), c).ServeHTTP(rr, req)
	return rr
}

func TestSaveUserAdmin_Created(t *testing.T) {
	c := new(MockUserCreator)
	c.On("CreateUser", mock.Anything, account.CreateUserRequest{
		Email:    "agent@broker.in",
		FullName: "Field Agent",
		Password: "s3cret-pass",
	}).Return(&storage.User{
		Name:         "agent@broker.in",
		FullName:     "Field Agent",
		PasswordHash: "$2a$10$hash",
		Enabled:      true,
	}, nil)

	rr := postUser(c, `{"email":"agent@broker.in","full_name":"Field Agent","password":"s3cret-pass"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"user":"agent@broker.in"`)
	assert.NotContains(t, rr.Body.String(), "$2a$10$hash")
}

func TestSaveUserAdmin_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", account.ErrValidation, http.StatusBadRequest},
		{"duplicate", storage.ErrAlreadyExists, http.StatusConflict},
		{"other", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(MockUserCreator)
			c.On("CreateUser", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("service.account.CreateUser: %w", tt.err))

			rr := postUser(c, `{"email":"agent@broker.in","password":"s3cret-pass"}`)
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestSaveUserAdmin_BadJSON(t *testing.T) {
	c := new(MockUserCreator)

	rr := postUser(c, `not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	c.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}
