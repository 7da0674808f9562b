package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/types"
)

// Application is a row of the applications table
type Application struct {
	ID                  uuid.UUID               `json:"id"`
	Name                string                  `json:"name"`
	Email               string                  `json:"email"`
	Phone               string                  `json:"phone"`
	GitHubURL           string                  `json:"github_url"`
	Focus               string                  `json:"focus"`
	Location            string                  `json:"location,omitempty"`
	Availability        string                  `json:"availability,omitempty"`
	ExpectedSalary      int                     `json:"expected_salary,omitempty"`
	ResumeKey           string                  `json:"resume_key"`
	ResumeFilename      string                  `json:"resume_filename,omitempty"`
	VideoURL            *string                 `json:"video_url,omitempty"`
	DeployURL           *string                 `json:"deploy_url,omitempty"`
	CanViewWithoutLogin *bool                   `json:"can_view_without_login,omitempty"`
	CanEmbed            *bool                   `json:"can_embed,omitempty"`
	EmailVerified       bool                    `json:"email_verified"`
	ResumeData          *types.ResumeData       `json:"resume_data,omitempty"`
	GitHubData          *types.GitHubData       `json:"github_data,omitempty"`
	Status              types.ApplicationStatus `json:"status"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// HasMedia reports whether a demo video has been attached.
func (a *Application) HasMedia() bool {
	return a.VideoURL != nil && *a.VideoURL != ""
}

// JobPosting is a recruiter-authored job posting
type JobPosting struct {
	ID              uuid.UUID  `json:"id"`
	Slug            *string    `json:"slug,omitempty"`
	RecruiterID     *uuid.UUID `json:"recruiter_id,omitempty"`
	Title           string     `json:"job_title"`
	Company         string     `json:"company_name"`
	Location        string     `json:"location"`
	EmploymentType  string     `json:"employment_type"`
	SalaryMin       int        `json:"salary_min"`
	SalaryMax       int        `json:"salary_max"`
	Currency        string     `json:"currency"`
	EngineeringType string     `json:"engineering_type"`
	RequiredSkills  []string   `json:"required_skills"`
	Description     string     `json:"job_description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Recruiter is an authenticated dashboard user
type Recruiter struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Company      string    `json:"company"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
