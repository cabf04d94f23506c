package otp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/response"
)

type OTPHandler struct {
	service OTPService
}

func NewOTPHandler(service OTPService) *OTPHandler {
	return &OTPHandler{service: service}
}

// RegisterRoutes mounts the password recovery endpoints; both are public.
func (h *OTPHandler) RegisterRoutes(router *gin.Engine) {
	grp := router.Group("/auth/password")
	grp.POST("/forgot", h.forgotPassword)
	grp.POST("/reset", h.resetPassword)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Request a password reset code
// @Description  Emails a one-time code to the account, if it exists
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /auth/password/forgot [post]
func (h *OTPHandler) forgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, ErrTooManyRequests) {
			response.SendAPIResponse(c, http.StatusTooManyRequests, false, err.Error(), nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to send reset code", nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "if the account exists a code was sent", nil)
}

// @Summary      Reset password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Email, code and new password"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/password/reset [post]
func (h *OTPHandler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password)
	switch {
	case err == nil:
		response.SendAPIResponse(c, http.StatusOK, true, "password updated", nil)
	case errors.Is(err, ErrWeakPassword):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ErrInvalidCode):
		response.SendAPIResponse(c, http.StatusUnauthorized, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to reset password", nil)
	}
}
