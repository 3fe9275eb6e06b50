package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/validation"
	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// Operation names written to the audit log
const (
	OpGetAll  = "getAll"
	OpGetByID = "getById"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
)

// AuditLogger records the outcome of one operation without blocking
type AuditLogger interface {
	Record(op string, err error)
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc    user.Usecase
	audit AuditLogger
	log   *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, audit AuditLogger, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:    uc,
		audit: audit,
		log:   log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Occupation string `json:"occupation"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Absent fields stay nil and are left untouched.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Occupation *string `json:"occupation"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Occupation string `json:"occupation"`
}

func toResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Occupation: u.Occupation,
	}
}

// GetAll handles GET /user
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, OpGetAll, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = toResponse(&users[i])
	}

	c.JSON(http.StatusOK, resp)
	h.audit.Record(OpGetAll, nil)
}

// GetByID handles GET /user/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		h.fail(c, OpGetByID, err)
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.fail(c, OpGetByID, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(u))
	h.audit.Record(OpGetByID, nil)
}

// Create handles POST /user
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		h.fail(c, OpCreate, validation.ErrInvalidJSON)
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Occupation: req.Occupation,
	})
	if err != nil {
		h.fail(c, OpCreate, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(u))
	h.audit.Record(OpCreate, nil)
}

// Update handles PUT /user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		h.fail(c, OpUpdate, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		h.fail(c, OpUpdate, validation.ErrInvalidJSON)
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:         id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Occupation: req.Occupation,
	})
	if err != nil {
		h.fail(c, OpUpdate, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(u))
	h.audit.Record(OpUpdate, nil)
}

// Delete handles DELETE /user/:id. The removed record is not echoed back.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		h.fail(c, OpDelete, err)
		return
	}

	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.fail(c, OpDelete, err)
		return
	}

	c.Status(http.StatusNoContent)
	h.audit.Record(OpDelete, nil)
}

func (h *UserHandler) parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Debug("invalid user id", zap.String("id", raw))
		return 0, apperrors.ErrInvalidID
	}
	return id, nil
}

// fail records the failed outcome and hands err to the error middleware.
func (h *UserHandler) fail(c *gin.Context, op string, err error) {
	h.audit.Record(op, err)
	_ = c.Error(err)
}
