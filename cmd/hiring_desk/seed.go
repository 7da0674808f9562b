package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo job postings and candidates",
	Long: `Insert the demo job postings (upserted by slug) and six ready candidates.
Candidates whose email already exists are skipped, so seeding twice is harmless.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedJob struct {
	slug, title, location, employment, engineering string
	min, max                                       int
	skills                                         []string
}

var demoJobs = []seedJob{
	{"job-001", "Senior Full-Stack Engineer", "Sydney", "full-time", "Full-Stack", 140000, 180000, []string{"AWS", "PostgreSQL", "React", "Node.js"}},
	{"job-002", "Frontend Developer", "Melbourne", "full-time", "Frontend", 100000, 130000, []string{"React", "TypeScript", "CSS", "Figma"}},
	{"job-003", "Backend Engineer", "Sydney", "full-time", "Backend", 120000, 160000, []string{"Python", "PostgreSQL", "AWS", "Docker"}},
	{"job-004", "DevOps Engineer", "Remote", "contract", "DevOps", 130000, 170000, []string{"Kubernetes", "AWS", "Terraform", "CI/CD"}},
}

type seedCandidate struct {
	name, location, focus, role string
	years, score                int
	skills, built               []string
}

var demoCandidates = []seedCandidate{
	{"Sarah Chen", "Sydney", types.FocusFullstack, "Full-Stack Engineer", 5, 92,
		[]string{"React", "Node.js", "AWS"}, []string{"Payments dashboard in React", "Serverless order API on AWS Lambda"}},
	{"Marcus Rodriguez", "Melbourne", types.FocusBackend, "Backend Engineer", 3, 78,
		[]string{"Python", "Django", "PostgreSQL"}, []string{"Django booking service"}},
	{"Emma Watson", "Sydney", types.FocusFrontend, "Frontend Engineer", 4, 85,
		[]string{"React", "TypeScript", "GraphQL"}, []string{"Design system in TypeScript", "GraphQL client cache layer"}},
	{"James Park", "Brisbane", types.FocusFrontend, "Frontend Developer", 2, 65,
		[]string{"JavaScript", "Vue.js", "MongoDB"}, []string{"Vue.js storefront"}},
	{"Lisa Kumar", "Remote", types.FocusBackend, "DevOps Engineer", 6, 88,
		[]string{"Kubernetes", "AWS", "Terraform"}, []string{"Terraform modules for EKS", "GitOps deployment pipeline"}},
	{"Tom Wilson", "Sydney", types.FocusFullstack, "Full-Stack Engineer", 7, 95,
		[]string{"React", "Node.js", "PostgreSQL"}, []string{"Multi-tenant SaaS platform", "Realtime analytics with PostgreSQL"}},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	for _, j := range demoJobs {
		slug := j.slug
		p := &db.JobPosting{
			Slug:            &slug,
			Title:           j.title,
			Location:        j.location,
			EmploymentType:  j.employment,
			SalaryMin:       j.min,
			SalaryMax:       j.max,
			Currency:        "AUD",
			EngineeringType: j.engineering,
			RequiredSkills:  j.skills,
		}
		if err := e.db.UpsertJobPostingBySlug(ctx, p); err != nil {
			return err
		}
		e.logger.Info("seeded job posting", zap.String("slug", slug), zap.String("id", p.ID.String()))
	}

	existing, err := e.db.ListApplications(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[strings.ToLower(a.Email)] = true
	}

	for _, c := range demoCandidates {
		email := demoEmail(c.name)
		if seen[email] {
			e.logger.Debug("candidate already seeded", zap.String("email", email))
			continue
		}
		handle := strings.ReplaceAll(strings.ToLower(c.name), " ", "-")
		app := &db.Application{
			Name:          c.name,
			Email:         email,
			GitHubURL:     "https://github.com/" + handle,
			Focus:         c.focus,
			Location:      c.location,
			Availability:  "2 weeks",
			Status:        types.StatusProcessing,
		}
		if err := e.db.CreateApplication(ctx, app); err != nil {
			return err
		}
		years, score := c.years, c.score
		data := &types.ResumeData{
			RoleLabel:             c.role,
			Built:                 c.built,
			Skills:                c.skills,
			YearsExperience:       &years,
			RiskFlags:             []string{},
			SuitabilityPercentage: &score,
		}
		if _, err := e.db.SetResumeData(ctx, app.ID, data); err != nil {
			return err
		}
		if err := e.db.UpdateApplicationStatus(ctx, app.ID, types.StatusReady); err != nil {
			return err
		}
		e.logger.Info("seeded candidate", zap.String("name", c.name), zap.String("id", app.ID.String()))
	}
	return nil
}

func demoEmail(name string) string {
	first, _, _ := strings.Cut(strings.ToLower(name), " ")
	return first + "@demo.com"
}
