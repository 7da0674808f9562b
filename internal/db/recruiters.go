package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRecruiter inserts a recruiter account and returns its ID
func (db *DB) CreateRecruiter(ctx context.Context, name, email, company, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recruiters (name, email, company, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, normalizeEmail(email), company, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create recruiter: %w", err)
	}
	return id, nil
}

// GetRecruiter retrieves a recruiter by ID. Returns nil, nil when not found.
func (db *DB) GetRecruiter(ctx context.Context, id uuid.UUID) (*Recruiter, error) {
	return db.getRecruiter(ctx, `WHERE id = $1`, id)
}

// GetRecruiterByEmail retrieves a recruiter by email. Returns nil, nil when not found.
func (db *DB) GetRecruiterByEmail(ctx context.Context, email string) (*Recruiter, error) {
	return db.getRecruiter(ctx, `WHERE email = $1`, normalizeEmail(email))
}

func (db *DB) getRecruiter(ctx context.Context, where string, arg any) (*Recruiter, error) {
	var r Recruiter
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, company, password_hash, created_at, updated_at
		 FROM recruiters `+where, arg,
	).Scan(&r.ID, &r.Name, &r.Email, &r.Company, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recruiter: %w", err)
	}
	return &r, nil
}

// CheckEmailExists reports whether a recruiter with this email exists
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM recruiters WHERE email = $1)`, normalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a recruiter's password hash
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recruiters SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recruiter not found: %s", id)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
