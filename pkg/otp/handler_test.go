package otp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOTPService struct {
	mock.Mock
}

func (m *mockOTPService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockOTPService) ResetPassword(ctx context.Context, email, code, password string) error {
	return m.Called(ctx, email, code, password).Error(0)
}

func post(r *gin.Engine, path, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestOTPHandler_Forgot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockOTPService)
	r := gin.New()
	NewOTPHandler(svc).RegisterRoutes(r)

	svc.On("RequestPasswordReset", mock.Anything, "ana@x.pt").Return(nil)
	svc.On("RequestPasswordReset", mock.Anything, "rui@x.pt").Return(ErrTooManyRequests)
	svc.On("RequestPasswordReset", mock.Anything, "eva@x.pt").Return(errors.New("boom"))

	require.Equal(t, http.StatusOK, post(r, "/auth/password/forgot", `{"email":"ana@x.pt"}`))
	require.Equal(t, http.StatusTooManyRequests, post(r, "/auth/password/forgot", `{"email":"rui@x.pt"}`))
	require.Equal(t, http.StatusInternalServerError, post(r, "/auth/password/forgot", `{"email":"eva@x.pt"}`))
	require.Equal(t, http.StatusBadRequest, post(r, "/auth/password/forgot", `{"email":"nope"}`))
}

func TestOTPHandler_Reset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockOTPService)
	r := gin.New()
	NewOTPHandler(svc).RegisterRoutes(r)

	svc.On("ResetPassword", mock.Anything, "ana@x.pt", "123456", "segura1").Return(nil)
	svc.On("ResetPassword", mock.Anything, "ana@x.pt", "000000", "segura1").Return(ErrInvalidCode)
	svc.On("ResetPassword", mock.Anything, "ana@x.pt", "123456", "abc").Return(ErrWeakPassword)

	require.Equal(t, http.StatusOK, post(r, "/auth/password/reset", `{"email":"ana@x.pt","code":"123456","password":"segura1"}`))
	require.Equal(t, http.StatusUnauthorized, post(r, "/auth/password/reset", `{"email":"ana@x.pt","code":"000000","password":"segura1"}`))
	require.Equal(t, http.StatusBadRequest, post(r, "/auth/password/reset", `{"email":"ana@x.pt","code":"123456","password":"abc"}`))
	require.Equal(t, http.StatusBadRequest, post(r, "/auth/password/reset", `{"email":"ana@x.pt"}`))
}
