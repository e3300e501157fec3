package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/database"
)

const emailConstraint = "accounts_email_key"

// Store is the account persistence the service depends on.
type Store interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// Repository handles account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an account repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID returns an account by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// GetByEmail returns an account by its normalised email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

// Create inserts a new account. A taken email yields ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string) (*models.Account, error) {
	const q = `INSERT INTO accounts (name, email, password_hash) VALUES ($1, $2, $3)
		RETURNING ` + accountColumns
	a, err := scanAccount(r.pool.QueryRow(ctx, q, name, email, passwordHash))
	if database.IsUniqueViolation(err, emailConstraint) {
		return nil, ErrDuplicateEmail
	}
	return a, err
}
