package types

// Employment types accepted on job postings.
var EmploymentTypes = []string{"full-time", "part-time", "contract", "internship"}

// JobPostingRequest is the recruiter job-posting form.
type JobPostingRequest struct {
	Title           string   `json:"job_title" validate:"required"`
	Company         string   `json:"company_name" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	EmploymentType  string   `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship"`
	SalaryMin       int      `json:"salary_min" validate:"gte=0"`
	SalaryMax       int      `json:"salary_max" validate:"gte=0,gtefield=SalaryMin"`
	Currency        string   `json:"currency,omitempty" validate:"omitempty,len=3"`
	EngineeringType string   `json:"engineering_type" validate:"required,oneof=Frontend Backend Full-Stack DevOps"`
	RequiredSkills  []string `json:"required_skills" validate:"required,min=1,dive,required"`
	Description     string   `json:"job_description" validate:"required"`
}
