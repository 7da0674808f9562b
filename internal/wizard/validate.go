package wizard

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ecodeclub/ekit/slice"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/types"
)

var (
	youtubePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)
	websitePattern = regexp.MustCompile(`^https?://.+\..+`)
	codePattern    = regexp.MustCompile(`^[0-9]{6}$`)
)

var jobAreas = []string{types.FocusFullstack, types.FocusFrontend, types.FocusBackend}

// intakeFields maps intake request fields onto form keys and their messages.
var intakeFields = map[string]struct{ key, message string }{
	"Name":           {"full_name", "Full name is required"},
	"Email":          {"email", "Please enter a valid email address"},
	"Phone":          {"phone_number", "Phone number is required"},
	"GitHubURL":      {"github_project_urls", "Please add at least one GitHub project URL"},
	"Focus":          {"job_area", "Please select a job area"},
	"Availability":   {"availability", "Please select a valid availability"},
	"ExpectedSalary": {"expected_salary", "Expected salary cannot be negative"},
}

// intakeFieldError turns an intake rejection into a form error keyed the way
// Validate keys its own errors.
func intakeFieldError(verr *applications.ValidationError) map[string]string {
	if f, ok := intakeFields[verr.Field]; ok {
		return map[string]string{f.key: f.message}
	}
	return map[string]string{"form": verr.Message}
}

// Normalize trims fields and drops blank URL rows.
func (p *PersonalInfo) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.JobArea = strings.ToLower(strings.TrimSpace(p.JobArea))
	p.Location = strings.TrimSpace(p.Location)
	p.Availability = strings.TrimSpace(p.Availability)
	p.GitHubProjectURLs = nonBlank(p.GitHubProjectURLs)
}

// Validate checks the form and the attached resume filename. Empty means valid.
func (p *PersonalInfo) Validate(resumeFilename string, hasResume bool) map[string]string {
	errs := map[string]string{}
	if p.FullName == "" {
		errs["full_name"] = "Full name is required"
	}
	if p.Email == "" {
		errs["email"] = "Email is required"
	} else if !types.EmailPattern.MatchString(p.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if p.PhoneNumber == "" {
		errs["phone_number"] = "Phone number is required"
	}
	if !slice.Contains(jobAreas, p.JobArea) {
		errs["job_area"] = "Please select a job area"
	}
	switch {
	case !hasResume:
		errs["resume_file"] = "Please upload your resume"
	case !strings.EqualFold(filepath.Ext(resumeFilename), ".pdf"):
		errs["resume_file"] = "Only PDF files are accepted"
	}
	if len(p.GitHubProjectURLs) == 0 {
		errs["github_project_urls"] = "Please add at least one GitHub project URL"
	}
	if p.ExpectedSalary < 0 {
		errs["expected_salary"] = "Expected salary cannot be negative"
	}
	return errs
}

// Normalize trims links and drops blank rows.
func (m *MediaLinks) Normalize() {
	m.YouTubeURLs = nonBlank(m.YouTubeURLs)
	sites := make([]Website, 0, len(m.Websites))
	for _, w := range m.Websites {
		if w.URL = strings.TrimSpace(w.URL); w.URL != "" {
			sites = append(sites, w)
		}
	}
	m.Websites = sites
}

// Validate checks the link lists. Empty means valid.
func (m *MediaLinks) Validate() map[string]string {
	errs := map[string]string{}
	if len(m.YouTubeURLs) == 0 {
		errs["youtube_urls"] = "Please add at least one YouTube URL"
	} else {
		for _, u := range m.YouTubeURLs {
			if !youtubePattern.MatchString(u) {
				errs["youtube_urls"] = "Please enter valid YouTube URLs"
				break
			}
		}
	}
	if len(m.Websites) == 0 {
		errs["website_urls"] = "Please add at least one website URL"
	} else {
		for _, w := range m.Websites {
			if !websitePattern.MatchString(w.URL) {
				errs["website_urls"] = "Please enter valid website URLs"
				break
			}
		}
	}
	return errs
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
