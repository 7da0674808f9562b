// Package wizard drives the three-step applicant flow: personal details and
// resume, demo links, then email verification. Progress lives in a server-side
// session keyed by an opaque id.
package wizard

import (
	"time"

	"github.com/google/uuid"
)

// Step is a wizard state
type Step string

// Wizard states, in order.
const (
	StepPage1       Step = "page_1"
	StepPage2       Step = "page_2"
	StepVerifyEmail Step = "verify_email"
	StepSubmitted   Step = "submitted"
)

// Page paths used for next/redirect hints.
const (
	PathPage1       = "/applicant/page_1"
	PathPage2       = "/applicant/page_2"
	PathVerifyEmail = "/applicant/verify_email"
)

// PersonalInfo is the page 1 form
type PersonalInfo struct {
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	PhoneNumber       string   `json:"phone_number"`
	JobArea           string   `json:"job_area"`
	GitHubProjectURLs []string `json:"github_project_urls"`
	ResumeFilename    string   `json:"resume_filename,omitempty"`
	Location          string   `json:"location,omitempty"`
	Availability      string   `json:"availability,omitempty"`
	ExpectedSalary    int      `json:"expected_salary,omitempty"`
}

// Website is a deployed project link
type Website struct {
	URL           string `json:"url"`
	RequiresLogin bool   `json:"requires_login"`
}

// MediaLinks is the page 2 form
type MediaLinks struct {
	YouTubeURLs []string  `json:"youtube_urls"`
	Websites    []Website `json:"websites"`
}

// Session is the stored wizard progress
type Session struct {
	ID            string        `json:"id"`
	Page1         *PersonalInfo `json:"applicant_page_1_data,omitempty"`
	Page2         *MediaLinks   `json:"applicant_page_2_data,omitempty"`
	ApplicationID *uuid.UUID    `json:"application_id,omitempty"`
	Code          string        `json:"code,omitempty"`
	CodeExpiresAt time.Time     `json:"code_expires_at,omitempty"`
	Attempts      int           `json:"attempts,omitempty"`
}

// Step reports where the applicant is in the flow.
func (s *Session) Step() Step {
	switch {
	case s == nil || s.Page1 == nil || s.ApplicationID == nil:
		return StepPage1
	case s.Page2 == nil:
		return StepPage2
	default:
		return StepVerifyEmail
	}
}

// clearCode drops any pending verification code.
func (s *Session) clearCode() {
	s.Code = ""
	s.CodeExpiresAt = time.Time{}
	s.Attempts = 0
}
