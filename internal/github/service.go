package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/types"
)

// Request describes the applicant whose GitHub profile is analysed
type Request struct {
	GitHubURL       string
	Focus           string
	RoleLabel       string
	Built           []string
	Skills          []string
	YearsExperience *int
}

// Result holds the stored GitHub data and the verification of resume claims
type Result struct {
	Data         *types.GitHubData
	Verification []types.BuiltVerification
}

// Service combines repository data, the analyzer and claim verification
type Service struct {
	client   *Client
	analyzer *Analyzer
	verifier *Verifier
	logger   *zap.Logger
}

// NewService wires the GitHub components together
func NewService(client *Client, analyzer *Analyzer, verifier *Verifier, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		analyzer: analyzer,
		verifier: verifier,
		logger:   logging.Component(logger, "github"),
	}
}

// Signals gathers everything known about the applicant's GitHub profile.
// Upstream failures are recorded as risk flags; only a cancelled context is
// returned as an error.
func (s *Service) Signals(ctx context.Context, req Request) (*Result, error) {
	username := ExtractUsername(req.GitHubURL)
	log := s.logger.With(zap.String("username", username))

	data, err := s.analyzer.Analyze(ctx, AnalyzeParams{
		Username:       username,
		JobTitle:       orDefault(req.RoleLabel, "Engineer"),
		RequiredSkills: req.Skills,
		Seniority:      SeniorityForYears(req.YearsExperience),
		Focus:          req.Focus,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("github analysis failed", zap.Error(err))
		data = emptyData()
		data.Username = username
		data.RiskFlags = append(data.RiskFlags, "GitHub analysis unavailable")
	}

	repos, err := s.client.Repos(ctx, username, req.Skills)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("repository fetch failed", zap.Error(err))
		data.RiskFlags = append(data.RiskFlags, "Could not fetch GitHub repositories")
		repos = []types.RepoSummary{}
	}
	s.client.AttachReadmes(ctx, username, repos)

	Summarize(data, repos)
	verification := s.verifier.Verify(ctx, req.Built, repos)

	stored := make([]types.RepoSummary, len(repos))
	for i, r := range repos {
		r.Readme = ""
		stored[i] = r
	}
	data.Repos = stored

	log.Info("github signals collected",
		zap.Int("repos", len(repos)),
		zap.Int("claims", len(verification)))
	return &Result{Data: data, Verification: verification}, nil
}

// SeniorityForYears maps years of experience to the analyzer's seniority levels.
func SeniorityForYears(years *int) string {
	switch {
	case years == nil:
		return "mid"
	case *years < 3:
		return "junior"
	case *years < 6:
		return "mid"
	default:
		return "senior"
	}
}

// Summarize fills activity, ownership, pattern and quality signals from repos.
func Summarize(data *types.GitHubData, repos []types.RepoSummary) {
	counts := map[string]int{}
	stars, described, documented := 0, 0, 0
	for _, r := range repos {
		stars += r.Stars
		if r.Language != "" {
			counts[r.Language]++
		}
		if r.Description != "" {
			described++
		}
		if r.Readme != "" {
			documented++
		}
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.Slice(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return languages[i] < languages[j]
	})
	if len(languages) > 3 {
		languages = languages[:3]
	}

	data.Activity = types.GitHubActivity{
		PublicRepos:  len(repos),
		TotalStars:   stars,
		TopLanguages: languages,
	}

	if len(repos) == 0 {
		data.RiskFlags = append(data.RiskFlags, "No public repositories found")
		return
	}
	data.Ownership = append(data.Ownership, fmt.Sprintf("Owns %d public repositories", len(repos)))
	if stars > 0 {
		data.Ownership = append(data.Ownership, fmt.Sprintf("%d stars across owned repositories", stars))
	}
	if len(languages) > 0 {
		data.Patterns = append(data.Patterns, "Primary languages: "+strings.Join(languages, ", "))
	}
	data.Quality = append(data.Quality,
		fmt.Sprintf("%d of %d repositories have descriptions", described, len(repos)),
		fmt.Sprintf("%d of %d repositories have a README", documented, len(repos)),
	)
}
