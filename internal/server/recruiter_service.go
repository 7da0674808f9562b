package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/config"
	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/types"
)

// RecruiterStore is the account persistence used by RecruiterService. *db.DB
// satisfies it.
type RecruiterStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateRecruiter(ctx context.Context, name, email, company, passwordHash string) (uuid.UUID, error)
	GetRecruiter(ctx context.Context, id uuid.UUID) (*db.Recruiter, error)
	GetRecruiterByEmail(ctx context.Context, email string) (*db.Recruiter, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// RecruiterService registers and authenticates recruiters
type RecruiterService struct {
	db             RecruiterStore
	passwordConfig *config.PasswordConfig
}

// NewRecruiterService creates a RecruiterService.
func NewRecruiterService(store RecruiterStore, passwordConfig *config.PasswordConfig) *RecruiterService {
	return &RecruiterService{db: store, passwordConfig: passwordConfig}
}

// toTypesRecruiter drops the password hash.
func toTypesRecruiter(r *db.Recruiter) *types.Recruiter {
	if r == nil {
		return nil
	}
	return &types.Recruiter{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Register creates a recruiter account.
func (s *RecruiterService) Register(ctx context.Context, req *types.CreateRecruiterRequest) (*types.Recruiter, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, &ErrValidation{Field: "password", Message: err.Error()}
	}

	id, err := s.db.CreateRecruiter(ctx, req.Name, req.Email, req.Company, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create recruiter: %w", err)
	}

	rec, err := s.db.GetRecruiter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created recruiter: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("created recruiter not found: %s", id)
	}
	return toTypesRecruiter(rec), nil
}

// Login checks credentials. Unknown emails and wrong passwords fail alike.
func (s *RecruiterService) Login(ctx context.Context, req *types.LoginRequest) (*types.Recruiter, error) {
	rec, err := s.db.GetRecruiterByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter by email: %w", err)
	}
	if rec == nil || !s.passwordConfig.VerifyPassword(req.Password, rec.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return toTypesRecruiter(rec), nil
}

// Get returns the recruiter's account.
func (s *RecruiterService) Get(ctx context.Context, id uuid.UUID) (*types.Recruiter, error) {
	rec, err := s.db.GetRecruiter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter: %w", err)
	}
	if rec == nil {
		return nil, &ErrRecruiterNotFound{RecruiterID: id}
	}
	return toTypesRecruiter(rec), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *RecruiterService) UpdatePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	rec, err := s.db.GetRecruiter(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get recruiter: %w", err)
	}
	if rec == nil {
		return &ErrRecruiterNotFound{RecruiterID: id}
	}
	if !s.passwordConfig.VerifyPassword(currentPassword, rec.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return &ErrValidation{Field: "new_password", Message: err.Error()}
	}
	if err := s.db.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
