package client

import (
	"context"
	"fmt"
	"net/http"

	"domly/pkg/users"
)

type SignupRequest struct {
	PrimeiroNome string `json:"primeiro_nome"`
	UltimoNome   string `json:"ultimo_nome"`
	Empresa      string `json:"empresa"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// NewUserRequest is an admin-created account.
type NewUserRequest struct {
	SignupRequest
	Role string `json:"role,omitempty"`
}

type AuthAPI struct{ c *Client }

// Signup creates the account and keeps its session token on the client.
func (a *AuthAPI) Signup(ctx context.Context, req SignupRequest) (users.AuthResult, error) {
	res, err := execute[users.AuthResult](a.c, a.c.request(ctx).SetBody(req), http.MethodPost, "/auth/signup")
	if err != nil {
		return users.AuthResult{}, err
	}
	a.c.SetToken(res.Token)
	return res, nil
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (users.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := execute[users.AuthResult](a.c, a.c.request(ctx).SetBody(body), http.MethodPost, "/auth/login")
	if err != nil {
		return users.AuthResult{}, err
	}
	a.c.SetToken(res.Token)
	return res, nil
}

// Logout ends the session server side; the local token is dropped either way.
func (a *AuthAPI) Logout(ctx context.Context) error {
	defer a.c.SetToken("")
	_, err := execute[any](a.c, a.c.request(ctx), http.MethodPost, "/auth/logout")
	return err
}

func (a *AuthAPI) Me(ctx context.Context) (users.User, error) {
	return execute[users.User](a.c, a.c.request(ctx), http.MethodGet, "/auth/me")
}

// ForgotPassword asks the server to email a reset code; unknown emails are not reported.
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	_, err := execute[any](a.c, a.c.request(ctx).SetBody(body), http.MethodPost, "/auth/password/forgot")
	return err
}

// ResetPassword sets a new password with an emailed code. Existing sessions end, so the caller must log in again.
func (a *AuthAPI) ResetPassword(ctx context.Context, email, code, password string) error {
	body := map[string]string{"email": email, "code": code, "password": password}
	_, err := execute[any](a.c, a.c.request(ctx).SetBody(body), http.MethodPost, "/auth/password/reset")
	return err
}

type AdminAPI struct{ c *Client }

func (a *AdminAPI) ListUsers(ctx context.Context, page, limit int) (users.UserList, error) {
	r := a.c.request(ctx).SetQueryParam("page", fmt.Sprint(page)).SetQueryParam("limit", fmt.Sprint(limit))
	return execute[users.UserList](a.c, r, http.MethodGet, "/admin/users")
}

func (a *AdminAPI) AllUsers(ctx context.Context) ([]users.User, error) {
	return collect(func(page int) ([]users.User, int64, error) {
		l, err := a.ListUsers(ctx, page, pageSize)
		return l.Items, l.Total, err
	})
}

func (a *AdminAPI) CreateUser(ctx context.Context, req NewUserRequest) (users.User, error) {
	return execute[users.User](a.c, a.c.request(ctx).SetBody(req), http.MethodPost, "/admin/users")
}

func (a *AdminAPI) UpdateUser(ctx context.Context, id string, p users.Profile) (users.User, error) {
	return execute[users.User](a.c, a.c.request(ctx).SetBody(p).SetPathParam("id", id), http.MethodPut, "/admin/users/{id}")
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/admin/users/{id}")
	return err
}
