package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"domly/pkg/sendemail"
	"domly/pkg/sessions"
	"domly/pkg/users"
)

var (
	ErrTooManyRequests = errors.New("too many code requests, try again later")
	ErrInvalidCode     = errors.New("invalid or expired code")
	ErrWeakPassword    = users.ErrWeakPassword
)

const (
	codeLength         = 6
	codeTTL            = 10 * time.Minute
	requestWindow      = time.Hour
	maxRequestsPerHour = 3
	maxAttempts        = 5
	minPasswordLen     = 6
)

// Accounts is the slice of the users repository password recovery needs.
type Accounts interface {
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type OTPService interface {
	// RequestPasswordReset emails a reset code. Unknown emails succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword swaps the password when code matches and revokes every session of the user.
	ResetPassword(ctx context.Context, email, code, password string) error
}

type otpService struct {
	repo     CodeRepository
	accounts Accounts
	sessions sessions.Store
	es       sendemail.EmailService
	log      *zap.Logger
}

func NewOTPService(repo CodeRepository, accounts Accounts, store sessions.Store, es sendemail.EmailService, log *zap.Logger) OTPService {
	return &otpService{repo: repo, accounts: accounts, sessions: store, es: es, log: log}
}

func (s *otpService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalize(email)

	count, err := s.repo.RegisterRequest(ctx, email, requestWindow)
	if err != nil {
		return fmt.Errorf("failed to check code requests: %w", err)
	}
	if count > maxRequestsPerHour {
		return ErrTooManyRequests
	}

	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.Info("password reset for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	code, err := generateOTP(codeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.repo.SaveCode(ctx, email, code, codeTTL); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.sendCodeEmail(user, code); err != nil {
		return fmt.Errorf("failed to send code email: %w", err)
	}
	s.log.Info("password reset code sent", zap.String("user_id", user.ID))
	return nil
}

func (s *otpService) ResetPassword(ctx context.Context, email, code, password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	email = normalize(email)

	stored, err := s.repo.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		attempts, err := s.repo.IncrementAttempts(ctx, email)
		if err != nil {
			if errors.Is(err, ErrCodeNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if attempts >= maxAttempts {
			s.log.Warn("reset code burned after failed attempts", zap.String("email", email))
			_ = s.repo.DeleteCode(ctx, email)
		}
		return ErrInvalidCode
	}

	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			_ = s.repo.DeleteCode(ctx, email)
			return ErrInvalidCode
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := s.repo.DeleteCode(ctx, email); err != nil {
		s.log.Warn("failed to delete used code", zap.Error(err))
	}
	if err := s.sessions.DeleteUser(ctx, user.ID); err != nil {
		s.log.Warn("failed to revoke sessions after reset", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.log.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *otpService) sendCodeEmail(user users.User, code string) error {
	subject := "Domly - código de recuperação"
	plain := fmt.Sprintf("Olá %s,\n\nO seu código de recuperação é %s.\nExpira em %d minutos.\n",
		user.PrimeiroNome, code, int(codeTTL.Minutes()))
	html := fmt.Sprintf("<p>Olá %s,</p><p>O seu código de recuperação é <strong>%s</strong>.</p><p>Expira em %d minutos.</p>",
		user.PrimeiroNome, code, int(codeTTL.Minutes()))
	return s.es.SendEmail(subject, user.Email, plain, html)
}

func generateOTP(length int) (string, error) {
	const digits = "0123456789"
	base := big.NewInt(int64(len(digits)))
	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		otp[i] = digits[n.Int64()]
	}
	return string(otp), nil
}
