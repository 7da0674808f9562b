// Package recruiter holds the recruiter-side workflows: the job-posting form,
// the persisted dashboard state and the ranked candidate view built from both.
package recruiter

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/types"
)

// Form defaults.
const (
	DefaultEmploymentType = "full-time"
	DefaultCurrency       = "AUD"
	NextAfterPosting      = "/recruiter/dashboard"
)

// fieldMessages holds the message for a failed "required" check, by field.
var fieldMessages = map[string]string{
	"job_title":        "Job title is required",
	"company_name":     "Company name is required",
	"location":         "Location is required",
	"engineering_type": "Please select an engineering type",
	"required_skills":  "At least one required skill is needed",
	"job_description":  "Job description is required",
}

// ValidationErrors maps form fields to messages
type ValidationErrors struct {
	Fields map[string]string
}

func (e *ValidationErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s - %s", k, e.Fields[k]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// JobPostingForm is the recruiter's new-job form
type JobPostingForm struct {
	types.JobPostingRequest
}

// AddSkill appends skill unless it is blank or already present, ignoring case.
func (f *JobPostingForm) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" || f.indexOf(skill) >= 0 {
		return false
	}
	f.RequiredSkills = append(f.RequiredSkills, skill)
	return true
}

// RemoveSkill drops skill, ignoring case.
func (f *JobPostingForm) RemoveSkill(skill string) bool {
	i := f.indexOf(strings.TrimSpace(skill))
	if i < 0 {
		return false
	}
	f.RequiredSkills = append(f.RequiredSkills[:i], f.RequiredSkills[i+1:]...)
	return true
}

func (f *JobPostingForm) indexOf(skill string) int {
	for i, s := range f.RequiredSkills {
		if strings.EqualFold(s, skill) {
			return i
		}
	}
	return -1
}

// Normalize trims text fields, applies defaults and deduplicates skills.
func (f *JobPostingForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Company = strings.TrimSpace(f.Company)
	f.Location = strings.TrimSpace(f.Location)
	f.EngineeringType = strings.TrimSpace(f.EngineeringType)
	f.Description = strings.TrimSpace(f.Description)
	f.EmploymentType = strings.ToLower(strings.TrimSpace(f.EmploymentType))
	if f.EmploymentType == "" {
		f.EmploymentType = DefaultEmploymentType
	}
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Currency == "" {
		f.Currency = DefaultCurrency
	}

	skills := f.RequiredSkills
	f.RequiredSkills = make([]string, 0, len(skills))
	for _, s := range skills {
		f.AddSkill(s)
	}
}

// Validate checks the form. Call Normalize first.
func (f *JobPostingForm) Validate() error {
	err := formValidator.Struct(&f.JobPostingRequest)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := map[string]string{}
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = messageFor(name, fe.Tag())
	}
	return &ValidationErrors{Fields: fields}
}

func messageFor(field, tag string) string {
	switch tag {
	case "required", "min":
		if msg, ok := fieldMessages[field]; ok {
			return msg
		}
		return field + " is required"
	case "oneof":
		if field == "engineering_type" {
			return fieldMessages[field]
		}
		return "Employment type must be one of " + strings.Join(types.EmploymentTypes, ", ")
	case "gtefield":
		return "Maximum salary must not be below the minimum"
	case "gte":
		return "Salary cannot be negative"
	case "len":
		return "Currency must be a 3-letter code"
	default:
		return field + " is invalid"
	}
}

// ToDB converts the form into a stored posting owned by recruiterID.
func (f *JobPostingForm) ToDB(recruiterID *uuid.UUID) *db.JobPosting {
	return &db.JobPosting{
		RecruiterID:     recruiterID,
		Title:           f.Title,
		Company:         f.Company,
		Location:        f.Location,
		EmploymentType:  f.EmploymentType,
		SalaryMin:       f.SalaryMin,
		SalaryMax:       f.SalaryMax,
		Currency:        f.Currency,
		EngineeringType: f.EngineeringType,
		RequiredSkills:  append([]string{}, f.RequiredSkills...),
		Description:     f.Description,
	}
}

// JobFromDB converts a stored posting into the job candidates are ranked against.
func JobFromDB(p *db.JobPosting) matching.JobPosting {
	skills := p.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return matching.JobPosting{
		ID:              p.ID.String(),
		Title:           p.Title,
		Company:         p.Company,
		Location:        p.Location,
		EmploymentType:  p.EmploymentType,
		SalaryMin:       p.SalaryMin,
		SalaryMax:       p.SalaryMax,
		Currency:        p.Currency,
		RequiredSkills:  skills,
		EngineeringType: p.EngineeringType,
		Description:     p.Description,
	}
}
