package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/utils"
)

var validate = validator.New()

// Service implements registration and login.
type Service struct {
	store  Store
	jwt    *JWTService
	logger *zap.Logger
}

// NewService creates the account service.
func NewService(store Store, jwt *JWTService, logger *zap.Logger) *Service {
	return &Service{store: store, jwt: jwt, logger: logger}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if validate.Var(email, "email") != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, utils.MinPasswordLength)
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc, err := s.store.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.logger.Info("account registered", zap.String("account_id", acc.ID.String()))
	return acc, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	acc, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if !utils.CheckPassword(password, acc.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwt.Generate(acc.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return acc, token, nil
}

// Account returns the account for a validated session.
func (s *Service) Account(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.store.GetByID(ctx, id)
}
