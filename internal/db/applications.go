package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-desk/internal/types"
)

const applicationColumns = `id, name, email, phone, github_url, focus, location, availability,
	expected_salary, resume_key, resume_filename, video_url, deploy_url,
	can_view_without_login, can_embed, email_verified, resume_data, github_data,
	status, created_at, updated_at`

// CreateApplication inserts a new application and fills in its id and timestamps
func (db *DB) CreateApplication(ctx context.Context, app *Application) error {
	if app.Status == "" {
		app.Status = types.StatusProcessing
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (name, email, phone, github_url, focus, location, availability,
		                           expected_salary, resume_key, resume_filename, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		app.Name, app.Email, app.Phone, app.GitHubURL, app.Focus, app.Location, app.Availability,
		app.ExpectedSalary, app.ResumeKey, app.ResumeFilename, app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID. Returns nil, nil when it does not exist.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns all applications, newest first
func (db *DB) ListApplications(ctx context.Context) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateApplicationMedia stores demo links. An application whose resume was
// already processed becomes ready; any other status is left alone. Returns the
// status after the update.
func (db *DB) UpdateApplicationMedia(ctx context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (types.ApplicationStatus, error) {
	var status string
	err := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET video_url = $2, deploy_url = $3, can_view_without_login = $4, can_embed = $5,
		     status = CASE WHEN status IN ('awaiting_media', 'ready') THEN 'ready' ELSE status END,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING status`,
		id, media.VideoURL, media.DeployURL, media.CanViewWithoutLogin, media.CanEmbed).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", fmt.Errorf("application not found: %s", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to update application media: %w", err)
	}
	return types.ApplicationStatus(status), nil
}

// SetResumeData stores the resume extraction result. The status is derived in
// the same statement from the stored video link, so media attached while the
// resume was processing is never lost. Returns the status after the update.
func (db *DB) SetResumeData(ctx context.Context, id uuid.UUID, data *types.ResumeData) (types.ApplicationStatus, error) {
	raw, err := marshalJSONB(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal resume data: %w", err)
	}
	var status string
	err = db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET resume_data = $2,
		     status = CASE
		         WHEN $3::boolean THEN 'failed'
		         WHEN video_url IS NOT NULL AND video_url <> '' THEN 'ready'
		         ELSE 'awaiting_media'
		     END,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING status`,
		id, raw, !data.OK()).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", fmt.Errorf("application not found: %s", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to set resume data: %w", err)
	}
	return types.ApplicationStatus(status), nil
}

// SetGitHubData stores GitHub analysis together with the resume data it annotated
func (db *DB) SetGitHubData(ctx context.Context, id uuid.UUID, gh *types.GitHubData, resume *types.ResumeData) error {
	ghRaw, err := marshalJSONB(gh)
	if err != nil {
		return fmt.Errorf("failed to marshal github data: %w", err)
	}
	resumeRaw, err := marshalJSONB(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume data: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE applications
		 SET github_data = $2, resume_data = COALESCE($3, resume_data), updated_at = NOW()
		 WHERE id = $1`,
		id, ghRaw, resumeRaw)
	if err != nil {
		return fmt.Errorf("failed to set github data: %w", err)
	}
	return nil
}

// UpdateApplicationStatus sets the status column
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// MarkEmailVerified flags the applicant's email as verified. Returns false when
// the application does not exist.
func (db *DB) MarkEmailVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	var resumeRaw, githubRaw []byte
	err := row.Scan(
		&app.ID, &app.Name, &app.Email, &app.Phone, &app.GitHubURL, &app.Focus,
		&app.Location, &app.Availability, &app.ExpectedSalary, &app.ResumeKey,
		&app.ResumeFilename, &app.VideoURL, &app.DeployURL, &app.CanViewWithoutLogin,
		&app.CanEmbed, &app.EmailVerified, &resumeRaw, &githubRaw, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(resumeRaw) > 0 {
		app.ResumeData = &types.ResumeData{}
		if err := json.Unmarshal(resumeRaw, app.ResumeData); err != nil {
			return nil, fmt.Errorf("failed to decode resume_data: %w", err)
		}
	}
	if len(githubRaw) > 0 {
		app.GitHubData = &types.GitHubData{}
		if err := json.Unmarshal(githubRaw, app.GitHubData); err != nil {
			return nil, fmt.Errorf("failed to decode github_data: %w", err)
		}
	}
	return &app, nil
}
