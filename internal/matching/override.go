package matching

import "strings"

// JobOverride is a partial job posting. Nil fields keep the base value.
type JobOverride struct {
	Title          *string   `json:"title,omitempty"`
	Location       *string   `json:"location,omitempty"`
	EmploymentType *string   `json:"employment_type,omitempty"`
	SalaryMin      *int      `json:"salary_min,omitempty"`
	SalaryMax      *int      `json:"salary_max,omitempty"`
	Currency       *string   `json:"currency,omitempty"`
	RequiredSkills *[]string `json:"required_skills,omitempty"`
}

// IsZero reports whether the override changes nothing.
func (o JobOverride) IsZero() bool {
	return o.Title == nil && o.Location == nil && o.EmploymentType == nil &&
		o.SalaryMin == nil && o.SalaryMax == nil && o.Currency == nil &&
		o.RequiredSkills == nil
}

// Merge returns o with every field set in next applied on top.
func (o JobOverride) Merge(next JobOverride) JobOverride {
	if next.Title != nil {
		o.Title = next.Title
	}
	if next.Location != nil {
		o.Location = next.Location
	}
	if next.EmploymentType != nil {
		o.EmploymentType = next.EmploymentType
	}
	if next.SalaryMin != nil {
		o.SalaryMin = next.SalaryMin
	}
	if next.SalaryMax != nil {
		o.SalaryMax = next.SalaryMax
	}
	if next.Currency != nil {
		o.Currency = next.Currency
	}
	if next.RequiredSkills != nil {
		o.RequiredSkills = next.RequiredSkills
	}
	return o
}

// Apply returns a copy of j with the override merged in.
func (j JobPosting) Apply(o JobOverride) JobPosting {
	if o.Title != nil {
		j.Title = *o.Title
	}
	if o.Location != nil {
		j.Location = *o.Location
	}
	if o.EmploymentType != nil {
		j.EmploymentType = *o.EmploymentType
	}
	if o.SalaryMin != nil {
		j.SalaryMin = *o.SalaryMin
	}
	if o.SalaryMax != nil {
		j.SalaryMax = *o.SalaryMax
	}
	if o.Currency != nil {
		j.Currency = *o.Currency
	}
	if o.RequiredSkills != nil {
		j.RequiredSkills = cleanSkills(*o.RequiredSkills)
	} else {
		j.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	}
	return j
}

// cleanSkills trims skills and drops blanks and case-insensitive repeats. A
// blank skill would otherwise match every candidate by substring.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
