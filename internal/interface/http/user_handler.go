package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-identity-service/internal/application"
	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	"github.com/oksasatya/user-identity-service/pkg/response"
	"github.com/oksasatya/user-identity-service/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email" binding:"required,email"`
	EmailVerified *bool  `json:"email_verified"`
	Password      string `json:"password" binding:"required,pwd"`
	SignupMethod  string `json:"signup_method" binding:"required,oneof=local google"`
}

type updateUserRequest struct {
	Username      *string `json:"username"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email" binding:"omitempty,email"`
	EmailVerified *bool   `json:"email_verified"`
	Password      *string `json:"password" binding:"omitempty,pwd"`
	SignupMethod  *string `json:"signup_method" binding:"omitempty,oneof=local google"`
}

// FindAll GET /api/users
func (h *UserHandler) FindAll(c *gin.Context) {
	users, err := h.Svc.FindAll(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "users", map[string]any{"count": len(users)})
}

// FindOne GET /api/users/:id
func (h *UserHandler) FindOne(c *gin.Context) {
	u, err := h.Svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", c.Param("id")).Error("get user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to get user", nil)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.CreateUserInput{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		SignupMethod: entity.SignupMethod(req.SignupMethod),
	}
	if req.EmailVerified != nil {
		in.EmailVerified = *req.EmailVerified
	}
	u, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			response.Error[any](c, http.StatusConflict, apperrors.ErrUserExists.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("create user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create user", nil)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdateUserInput{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
		Password:      req.Password,
	}
	if req.SignupMethod != nil {
		m := entity.SignupMethod(*req.SignupMethod)
		in.SignupMethod = &m
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			response.Error[any](c, http.StatusConflict, apperrors.ErrUserExists.Error(), nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", c.Param("id")).Error("update user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update user", nil)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

// Remove DELETE /api/users/:id; deleting an unknown id still succeeds.
func (h *UserHandler) Remove(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.Logger.WithError(err).WithField("user_id", c.Param("id")).Error("delete user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("search users failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
