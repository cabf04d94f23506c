package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the auth and admin endpoints; auth resolves the caller's session.
func (h *UserHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/auth/signup", h.signup)
	router.POST("/auth/login", h.login)
	router.POST("/auth/logout", auth, h.logout)
	router.GET("/auth/me", auth, h.me)

	admin := router.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/users", h.listUsers)
	admin.POST("/users", h.createUser)
	admin.PUT("/users/:id", h.updateUser)
	admin.DELETE("/users/:id", h.deleteUser)
}

type signupRequest struct {
	PrimeiroNome string `json:"primeiro_nome" binding:"required"`
	UltimoNome   string `json:"ultimo_nome" binding:"required"`
	Empresa      string `json:"empresa"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createUserRequest struct {
	signupRequest
	Role string `json:"role" binding:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	PrimeiroNome string `json:"primeiro_nome" binding:"required"`
	UltimoNome   string `json:"ultimo_nome"`
	Empresa      string `json:"empresa"`
	Role         string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (r signupRequest) input() SignupInput {
	return SignupInput{
		Email:        r.Email,
		Password:     r.Password,
		PrimeiroNome: r.PrimeiroNome,
		UltimoNome:   r.UltimoNome,
		Empresa:      r.Empresa,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
	case errors.Is(err, ErrEmailTaken):
		response.SendAPIResponse(c, http.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		response.SendAPIResponse(c, http.StatusUnauthorized, false, err.Error(), nil)
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrWeakPassword):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signupRequest true "Signup request"
// @Success      201 {object} response.APIResponse{data=AuthResult}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/signup [post]
func (h *UserHandler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	res, err := h.service.Signup(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "user created", res)
}

// @Summary      Login (email and password)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=AuthResult}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "login successful", res)
}

// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse
// @Router       /auth/logout [post]
func (h *UserHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "logged out", nil)
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/me [get]
func (h *UserHandler) me(c *gin.Context) {
	u, err := h.service.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user fetched", u)
}

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=UserList}
// @Failure      403 {object} response.APIResponse
// @Router       /admin/users [get]
func (h *UserHandler) listUsers(c *gin.Context) {
	page, limit := response.Pagination(c)
	items, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	data := UserList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "users listed", data)
}

// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createUserRequest true "Create user request"
// @Success      201 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /admin/users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	u, err := h.service.CreateUser(c.Request.Context(), req.input(), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "user created", u)
}

// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body updateUserRequest true "Update user request"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      404 {object} response.APIResponse
// @Router       /admin/users/{id} [put]
func (h *UserHandler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	u, err := h.service.UpdateUser(c.Request.Context(), c.Param("id"), Profile{
		PrimeiroNome: req.PrimeiroNome,
		UltimoNome:   req.UltimoNome,
		Empresa:      req.Empresa,
		Role:         req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user updated", u)
}

// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) deleteUser(c *gin.Context) {
	if c.Param("id") == middleware.UserID(c) {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "cannot delete your own account", nil)
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user deleted", nil)
}
