package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"domly/pkg/sessions"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user exists with that email")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password must have at least 6 characters")
)

const minPasswordLen = 6

type SignupInput struct {
	Email        string
	Password     string
	PrimeiroNome string
	UltimoNome   string
	Empresa      string
}

type UserService interface {
	Signup(ctx context.Context, in SignupInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, id string) (User, error)
	// Admin operations
	CreateUser(ctx context.Context, in SignupInput, role string) (User, error)
	UpdateUser(ctx context.Context, id string, p Profile) (User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, page, limit int) ([]User, int64, error)
}

type userService struct {
	repo     UserRepository
	sessions sessions.Store
	log      *zap.Logger
}

func NewUserService(repo UserRepository, store sessions.Store, log *zap.Logger) UserService {
	return &userService{repo: repo, sessions: store, log: log}
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *userService) insert(ctx context.Context, in SignupInput, role string) (User, error) {
	if len(in.Password) < minPasswordLen {
		return User{}, ErrWeakPassword
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u, err := s.repo.CreateUser(ctx, NewUser{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hashBytes),
		PrimeiroNome: in.PrimeiroNome,
		UltimoNome:   in.UltimoNome,
		Empresa:      in.Empresa,
		Role:         role,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *userService) openSession(ctx context.Context, u User) (AuthResult, error) {
	sess, err := s.sessions.Create(ctx, u.ID, u.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	u, err := s.insert(ctx, in, RoleUser)
	if err != nil {
		return AuthResult{}, err
	}
	s.log.Info("user signed up", zap.String("user_id", u.ID))
	return s.openSession(ctx, u)
}

func (s *userService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	id, hash, err := s.repo.GetUserAuthByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return AuthResult{}, err
	}
	return s.openSession(ctx, u)
}

func (s *userService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Delete(ctx, token)
	if errors.Is(err, sessions.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *userService) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, in SignupInput, role string) (User, error) {
	if role == "" {
		role = RoleUser
	}
	if !validRole(role) {
		return User{}, ErrInvalidRole
	}
	u, err := s.insert(ctx, in, role)
	if err != nil {
		return User{}, err
	}
	s.log.Info("user created by admin", zap.String("user_id", u.ID), zap.String("role", role))
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, p Profile) (User, error) {
	if p.Role != "" && !validRole(p.Role) {
		return User{}, ErrInvalidRole
	}
	u, err := s.repo.UpdateUser(ctx, id, p)
	if err != nil {
		return User{}, err
	}
	if p.Role != "" {
		// Sessions carry the role; force a fresh login after a role change.
		if err := s.sessions.DeleteUser(ctx, id); err != nil {
			s.log.Error("revoking sessions failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.DeleteUser(ctx, id); err != nil {
		s.log.Error("revoking sessions failed", zap.String("user_id", id), zap.Error(err))
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListUsers(ctx, limit, offset)
}
