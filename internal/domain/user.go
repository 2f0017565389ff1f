package domain

import (
	"context"
	"fmt"
	"time"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	FullName     string    `json:"full_name"`
	CompanyName  *string   `json:"company_name"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

type UserRepository interface {
	// Create fills ID and CreatedAt. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type RegisterInput struct {
	Email       string
	Password    string
	Role        Role
	FullName    string
	CompanyName *string
	Phone       *string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (*User, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
