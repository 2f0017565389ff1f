package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/security"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72
)

type authUsecase struct {
	userRepo   domain.UserRepository
	passwords  *security.PasswordService
	tokens     *security.TokenService
	allowAdmin bool
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	passwords *security.PasswordService,
	tokens *security.TokenService,
	allowAdminRegistration bool,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		passwords:  passwords,
		tokens:     tokens,
		allowAdmin: allowAdminRegistration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	if !in.Role.Valid() {
		return nil, apperror.BadRequest("Role must be one of candidate, employer, admin")
	}
	if in.Role == domain.RoleAdmin && !u.allowAdmin {
		return nil, apperror.Forbidden("Admin accounts cannot be self-registered")
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > maxPasswordLength {
		return nil, apperror.BadRequest("Password must be between 6 and 72 characters")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.BadRequest("Full name is required")
	}

	email := normalizeEmail(in.Email)

	// Friendly pre-check; users_email_key still settles concurrent registrations.
	_, err := u.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("Email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	hash, err := u.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperror.BadRequest("Password must be between 6 and 72 characters")
		}
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		FullName:     strings.TrimSpace(in.FullName),
		CompanyName:  in.CompanyName,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(err)
	}

	return u.issue(user)
}

// Login answers "Invalid credentials" for every failure so callers cannot
// tell an unknown email from a wrong password.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	invalid := apperror.Unauthorized("Invalid credentials")

	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.passwords.VerifyDummy(password)
			return nil, invalid
		}
		return nil, apperror.Internal(err)
	}

	if !u.passwords.Verify(user.PasswordHash, password) || !user.IsActive {
		return nil, invalid
	}
	return u.issue(user)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	subject, err := u.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, apperror.New(http.StatusUnauthorized, "Token has expired", err)
		}
		return nil, apperror.New(http.StatusUnauthorized, "Invalid authentication credentials", err)
	}

	user, err := u.userRepo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("User not found")
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, expiresAt, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
