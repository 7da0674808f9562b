package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobPostingColumns = `id, slug, recruiter_id, title, company, location, employment_type,
	salary_min, salary_max, currency, engineering_type, required_skills, description,
	created_at, updated_at`

// CreateJobPosting inserts a job posting and fills in its id and timestamps
func (db *DB) CreateJobPosting(ctx context.Context, p *JobPosting) error {
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (slug, recruiter_id, title, company, location, employment_type,
		                           salary_min, salary_max, currency, engineering_type,
		                           required_skills, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		p.Slug, p.RecruiterID, p.Title, p.Company, p.Location, p.EmploymentType,
		p.SalaryMin, p.SalaryMax, p.Currency, p.EngineeringType, p.RequiredSkills, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

// UpsertJobPostingBySlug inserts or refreshes a seeded posting identified by slug
func (db *DB) UpsertJobPostingBySlug(ctx context.Context, p *JobPosting) error {
	if p.Slug == nil || *p.Slug == "" {
		return fmt.Errorf("slug is required for upsert")
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (slug, title, company, location, employment_type,
		                           salary_min, salary_max, currency, engineering_type,
		                           required_skills, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (slug) DO UPDATE SET
		     title = EXCLUDED.title,
		     company = EXCLUDED.company,
		     location = EXCLUDED.location,
		     employment_type = EXCLUDED.employment_type,
		     salary_min = EXCLUDED.salary_min,
		     salary_max = EXCLUDED.salary_max,
		     currency = EXCLUDED.currency,
		     engineering_type = EXCLUDED.engineering_type,
		     required_skills = EXCLUDED.required_skills,
		     description = EXCLUDED.description,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		p.Slug, p.Title, p.Company, p.Location, p.EmploymentType,
		p.SalaryMin, p.SalaryMax, p.Currency, p.EngineeringType, p.RequiredSkills, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return nil
}

// GetJobPosting retrieves a job posting by ID. Returns nil, nil when it does not exist.
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`, id)
	p, err := scanJobPosting(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// GetJobPostingBySlug retrieves a seeded job posting. Returns nil, nil when it does not exist.
func (db *DB) GetJobPostingBySlug(ctx context.Context, slug string) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE slug = $1`, slug)
	p, err := scanJobPosting(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting by slug: %w", err)
	}
	return p, nil
}

// ListJobPostings returns all job postings, newest first
func (db *DB) ListJobPostings(ctx context.Context) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	postings := []JobPosting{}
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

// DeleteJobPosting removes a job posting. Returns false when nothing was deleted.
func (db *DB) DeleteJobPosting(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	err := row.Scan(
		&p.ID, &p.Slug, &p.RecruiterID, &p.Title, &p.Company, &p.Location, &p.EmploymentType,
		&p.SalaryMin, &p.SalaryMax, &p.Currency, &p.EngineeringType, &p.RequiredSkills,
		&p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	return &p, nil
}
