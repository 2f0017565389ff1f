package postgres

import (
	"context"
	"fmt"
	"strings"

	"job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id::text, email, password_hash, role, full_name, company_name, phone, is_active, created_at`

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, role, full_name, company_name, phone, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id::text, created_at`
	err := r.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, string(user.Role), user.FullName, user.CompanyName, user.Phone, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1`
	return r.scanOne(ctx, query, strings.ToLower(email))
}

func (r *userRepo) scanOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var role string
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &role, &user.FullName,
		&user.CompanyName, &user.Phone, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}
