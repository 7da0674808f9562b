package decisioncard

import (
	"fmt"

	"github.com/ecodeclub/ekit/slice"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/types"
)

// VerifiedSkill is a skill with its evidence state.
type VerifiedSkill struct {
	Name       string `json:"skill_name"`
	Years      int    `json:"years_of_experience"`
	IsVerified bool   `json:"is_verified"`
}

// Project is a "built" claim with the repository that backs it, if any.
type Project struct {
	ID           string   `json:"project_id"`
	Title        string   `json:"project_title"`
	Confidence   int      `json:"confidence"`
	RepoURL      string   `json:"repo_url,omitempty"`
	GitHubURL    string   `json:"github_url,omitempty"`
	Technologies []string `json:"technologies_used"`
}

// EngineerSummary describes how the candidate works.
type EngineerSummary struct {
	InferredSeniority  string   `json:"inferred_seniority"`
	CoreStrengths      []string `json:"core_strengths"`
	WorkingStyle       string   `json:"working_style"`
	CollaborationStyle string   `json:"collaboration_style"`
}

// Media groups the demo links an applicant submitted.
type Media struct {
	VideoURL            *string `json:"video_url,omitempty"`
	DeployURL           *string `json:"deploy_url,omitempty"`
	CanViewWithoutLogin *bool   `json:"can_view_without_login,omitempty"`
	CanEmbed            *bool   `json:"can_embed,omitempty"`
}

// Profile is the full candidate view.
type Profile struct {
	matching.Candidate
	Email                string                  `json:"email"`
	EmailVerified        bool                    `json:"email_verified"`
	Skills               []VerifiedSkill         `json:"skills"`
	Projects             []Project               `json:"projects"`
	GitHubActivity       types.GitHubActivity    `json:"github_activity"`
	HiringRecommendation string                  `json:"hiring_recommendation"`
	Justification        string                  `json:"justification,omitempty"`
	EngineerSummary      EngineerSummary         `json:"engineer_summary"`
	Recommendations      []string                `json:"recommendations"`
	Strengths            []string                `json:"strengths"`
	Risks                []string                `json:"risks"`
	ResumeURL            string                  `json:"resume_url,omitempty"`
	LinkedInURL          string                  `json:"linkedin_url,omitempty"`
	GitHubURL            string                  `json:"github_url,omitempty"`
	Media                Media                   `json:"media"`
	Status               types.ApplicationStatus `json:"status"`
}

// ToProfile derives the full profile. resumeURL is where the recruiter can
// download the stored resume, empty when none is exposed.
func ToProfile(app *db.Application, resumeURL string) Profile {
	p := Profile{
		Candidate:            ToCandidate(app),
		Email:                app.Email,
		EmailVerified:        app.EmailVerified,
		Skills:               []VerifiedSkill{},
		Projects:             []Project{},
		HiringRecommendation: "Candidate shows strong potential.",
		EngineerSummary: EngineerSummary{
			InferredSeniority:  "mid-level",
			CoreStrengths:      []string{},
			WorkingStyle:       "independent",
			CollaborationStyle: "collaborative",
		},
		Recommendations: []string{},
		Strengths:       []string{},
		Risks:           []string{},
		ResumeURL:       resumeURL,
		GitHubURL:       app.GitHubURL,
		Media: Media{
			VideoURL:            app.VideoURL,
			DeployURL:           app.DeployURL,
			CanViewWithoutLogin: app.CanViewWithoutLogin,
			CanEmbed:            app.CanEmbed,
		},
		Status: app.Status,
	}

	r, g := app.ResumeData, app.GitHubData
	years := p.YearsOfExperience

	var skills []string
	if r != nil {
		skills = r.Skills
		p.Risks = append(p.Risks, r.RiskFlags...)
		p.Projects = projects(r, app.GitHubURL)
	}
	if g != nil {
		if len(skills) == 0 {
			skills = g.CoreStrengths
		}
		p.GitHubActivity = g.Activity
		if g.Justification != "" {
			p.HiringRecommendation = g.Justification
		}
		p.Justification = g.Justification
		if g.InferredSeniority != "" {
			p.EngineerSummary.InferredSeniority = g.InferredSeniority
		}
		if g.CollaborationStyle != "" {
			p.EngineerSummary.CollaborationStyle = g.CollaborationStyle
		}
		if ws, ok := rawString(g.Raw, "engineer_summary", "working_style"); ok {
			p.EngineerSummary.WorkingStyle = ws
		}
		p.EngineerSummary.CoreStrengths = orEmpty(g.CoreStrengths)
		p.Strengths = orEmpty(g.CoreStrengths)
		p.Recommendations = head(g.Recommendations, 3)
		p.Risks = append(p.Risks, g.RiskFlags...)
	}

	verified := verifier(g)
	for _, s := range skills {
		p.Skills = append(p.Skills, VerifiedSkill{Name: s, Years: years, IsVerified: verified(s)})
	}
	return p
}

func projects(r *types.ResumeData, githubURL string) []Project {
	conf := make(map[string]types.BuiltVerification, len(r.BuiltVerification))
	for _, v := range r.BuiltVerification {
		conf[v.Item] = v
	}
	out := make([]Project, 0, len(r.Built))
	for i, item := range r.Built {
		v := conf[item]
		out = append(out, Project{
			ID:           fmt.Sprintf("proj-%d", i+1),
			Title:        item,
			Confidence:   v.Confidence,
			RepoURL:      v.RepoURL,
			GitHubURL:    githubURL,
			Technologies: head(r.Skills, topSkillCount),
		})
	}
	return out
}

// verifier reports a skill as verified when GitHub evidence mentions it: a top
// language or a core strength from the analyzer.
func verifier(g *types.GitHubData) func(string) bool {
	if g == nil {
		return func(string) bool { return false }
	}
	evidence := append(append([]string{}, g.Activity.TopLanguages...), g.CoreStrengths...)
	return func(skill string) bool {
		_, ok := slice.Find(evidence, func(e string) bool {
			return matching.SkillMatches(skill, e)
		})
		return ok
	}
}

func rawString(raw map[string]any, section, key string) (string, bool) {
	m, ok := raw[section].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok && s != ""
}
