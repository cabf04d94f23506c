package users

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PrimeiroNome string    `json:"primeiro_nome"`
	UltimoNome   string    `json:"ultimo_nome"`
	Empresa      string    `json:"empresa"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser carries the fields needed to insert a user; PasswordHash is already hashed.
type NewUser struct {
	Email        string
	PasswordHash string
	PrimeiroNome string
	UltimoNome   string
	Empresa      string
	Role         string
}

// Profile is the editable part of a user.
type Profile struct {
	PrimeiroNome string `json:"primeiro_nome"`
	UltimoNome   string `json:"ultimo_nome"`
	Empresa      string `json:"empresa"`
	Role         string `json:"role"`
}

// AuthResult is returned on signup and login.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
