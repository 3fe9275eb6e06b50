package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap/zaptest"

	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/gin/validation"
	domain "user-crud-service/internal/domain/user"
	usecase "user-crud-service/internal/usecase/user"
	apperrors "user-crud-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// recordingAudit keeps the entries it was given
type recordingAudit struct {
	mu      sync.Mutex
	entries []string
}

func (a *recordingAudit) Record(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	outcome := "success"
	if err != nil {
		outcome = "fail"
	}
	a.entries = append(a.entries, op+"() "+outcome)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase, *recordingAudit) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	audit := &recordingAudit{}
	log := zaptest.NewLogger(t)
	h := NewUserHandler(mockUsecase, audit, log)

	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	r.GET("/user", h.GetAll)
	r.GET("/user/:id", h.GetByID)
	r.POST("/user", validation.Body(validation.CreateUser), h.Create)
	r.PUT("/user/:id", validation.Body(validation.UpdateUser), h.Update)
	r.DELETE("/user/:id", h.Delete)
	return r, mockUsecase, audit
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleUser() *domain.User {
	return &domain.User{ID: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com", Occupation: "Engineer"}
}

const sampleJSON = `{"id":1,"firstName":"John","lastName":"Doe","email":"john@example.com","occupation":"Engineer"}`

func strPtr(s string) *string { return &s }

func TestGetAll(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return([]domain.User{*sampleUser()}, nil)

		w := do(r, http.MethodGet, "/user", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "["+sampleJSON+"]", w.Body.String())
		assert.Equal(t, []string{"getAll() success"}, audit.entries)
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		r, mockUsecase, _ := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return([]domain.User{}, nil)

		w := do(r, http.MethodGet, "/user", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Storage error", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(nil, errors.New("connection refused"))

		w := do(r, http.MethodGet, "/user", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"message":"connection refused"}}`, w.Body.String())
		assert.Equal(t, []string{"getAll() fail"}, audit.entries)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).Return(sampleUser(), nil)

		w := do(r, http.MethodGet, "/user/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, sampleJSON, w.Body.String())
		assert.Equal(t, []string{"getById() success"}, audit.entries)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)

		w := do(r, http.MethodGet, "/user/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":{"message":"invalid id"}}`, w.Body.String())
		assert.Equal(t, []string{"getById() fail"}, audit.entries)
		mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 99}).Return(nil, apperrors.ErrUserNotFound)

		w := do(r, http.MethodGet, "/user/99", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "user not found", gjson.Get(w.Body.String(), "error.message").String())
		assert.Equal(t, []string{"getById() fail"}, audit.entries)
	})
}

func TestCreate(t *testing.T) {
	const body = `{"firstName":"John","lastName":"Doe","email":"john@example.com","occupation":"Engineer"}`

	t.Run("Success", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{
			FirstName: "John", LastName: "Doe", Email: "john@example.com", Occupation: "Engineer",
		}).Return(sampleUser(), nil)

		w := do(r, http.MethodPost, "/user", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, sampleJSON, w.Body.String())
		assert.Equal(t, []string{"create() success"}, audit.entries)
	})

	t.Run("Conflict", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserAlreadyExists)

		w := do(r, http.MethodPost, "/user", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":{"message":"user already exists"}}`, w.Body.String())
		assert.Equal(t, []string{"create() fail"}, audit.entries)
	})

	t.Run("Validation error never reaches handler", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)

		w := do(r, http.MethodPost, "/user", `{"firstName":"John","lastName":"Doe","occupation":"Engineer"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":{"message":"\"email\" is required"}}`, w.Body.String())
		assert.Empty(t, audit.entries)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Success with partial body", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		updated := sampleUser()
		updated.Occupation = "Architect"
		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{
			ID: 1, Occupation: strPtr("Architect"),
		}).Return(updated, nil)

		w := do(r, http.MethodPut, "/user/1", `{"occupation":"Architect"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Architect", gjson.Get(w.Body.String(), "occupation").String())
		assert.Equal(t, "John", gjson.Get(w.Body.String(), "firstName").String())
		assert.Equal(t, []string{"update() success"}, audit.entries)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _, audit := setupTest(t)

		w := do(r, http.MethodPut, "/user/1.5", `{"occupation":"Architect"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":{"message":"invalid id"}}`, w.Body.String())
		assert.Equal(t, []string{"update() fail"}, audit.entries)
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserNotFound)

		w := do(r, http.MethodPut, "/user/5", `{"firstName":"Jane"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"update() fail"}, audit.entries)
	})

	t.Run("Invalid email", func(t *testing.T) {
		r, mockUsecase, _ := setupTest(t)

		w := do(r, http.MethodPut, "/user/1", `{"email":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":{"message":"\"email\" must be a valid email"}}`, w.Body.String())
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 1}).Return(sampleUser(), nil)

		w := do(r, http.MethodDelete, "/user/1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, []string{"delete() success"}, audit.entries)
	})

	t.Run("Not found", func(t *testing.T) {
		r, mockUsecase, audit := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 3}).Return(nil, apperrors.ErrUserNotFound)

		w := do(r, http.MethodDelete, "/user/3", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":{"message":"user not found"}}`, w.Body.String())
		assert.Equal(t, []string{"delete() fail"}, audit.entries)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _, audit := setupTest(t)

		w := do(r, http.MethodDelete, "/user/x", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"delete() fail"}, audit.entries)
	})
}
