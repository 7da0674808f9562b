package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/types"
)

// MaxRecommendations caps the merged recommendation list.
const MaxRecommendations = 3

// Data sources recorded on GitHubData.
const (
	SourceAnalyzer = "analyzer"
	SourceMock     = "mock"
	SourceRepos    = "repos"
)

// AnalyzeParams are the query parameters sent to the analyzer service
type AnalyzeParams struct {
	Username       string
	JobTitle       string
	RequiredSkills []string
	Seniority      string
	Focus          string
}

// Analyzer calls the external GitHub profile analyzer service
type Analyzer struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewAnalyzer creates an analyzer client. An empty baseURL makes Analyze return
// mock data.
func NewAnalyzer(baseURL string, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.Component(logger, "github-analyzer"),
	}
}

type analyzerResponse struct {
	EngineerSummary struct {
		InferredSeniority  string   `mapstructure:"inferred_seniority"`
		CoreStrengths      []string `mapstructure:"core_strengths"`
		CollaborationStyle string   `mapstructure:"collaboration_style"`
	} `mapstructure:"engineer_summary"`
	HiringRecommendation struct {
		ConfidencePercentage *int   `mapstructure:"confidence_percentage"`
		Justification        string `mapstructure:"justification"`
	} `mapstructure:"hiring_recommendation"`
	Recommendations struct {
		GitHubImprovements []string `mapstructure:"github_improvements"`
		SkillDevelopment   []string `mapstructure:"skill_development"`
		ProjectSuggestions []string `mapstructure:"project_suggestions"`
	} `mapstructure:"recommendations"`
	RiskFactors []string `mapstructure:"risk_factors"`
}

// Analyze fetches the analyzer's view of a GitHub profile
func (a *Analyzer) Analyze(ctx context.Context, p AnalyzeParams) (*types.GitHubData, error) {
	if a.baseURL == "" {
		a.logger.Warn("analyzer url not configured, using mock data")
		data := MockData()
		data.Username = p.Username
		return data, nil
	}
	if p.Username == "" {
		return nil, fmt.Errorf("could not extract username from GitHub URL")
	}

	query := url.Values{
		"username":        {p.Username},
		"job_title":       {orDefault(p.JobTitle, "Engineer")},
		"required_skills": {strings.Join(p.RequiredSkills, ",")},
		"seniority":       {orDefault(p.Seniority, "mid")},
		"focus":           {orDefault(p.Focus, types.FocusFullstack)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/analyze?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GitHub analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GitHub analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}
	data, err := ParseAnalyzerResponse(raw)
	if err != nil {
		return nil, err
	}
	data.Username = p.Username
	return data, nil
}

// ParseAnalyzerResponse maps the analyzer's loose JSON onto GitHubData, keeping
// the full payload in Raw.
func ParseAnalyzerResponse(raw map[string]any) (*types.GitHubData, error) {
	if msg, ok := raw["error"]; ok {
		return nil, fmt.Errorf("analyzer error: %v", msg)
	}

	var resp analyzerResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &resp,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}

	data := emptyData()
	data.Source = SourceAnalyzer
	data.Raw = raw
	data.InferredSeniority = resp.EngineerSummary.InferredSeniority
	data.CoreStrengths = nonNil(resp.EngineerSummary.CoreStrengths)
	data.CollaborationStyle = resp.EngineerSummary.CollaborationStyle
	data.ConfidencePercentage = resp.HiringRecommendation.ConfidencePercentage
	data.Justification = resp.HiringRecommendation.Justification
	data.RiskFlags = nonNil(resp.RiskFactors)
	data.Recommendations = MergeRecommendations(
		resp.Recommendations.GitHubImprovements,
		resp.Recommendations.SkillDevelopment,
		resp.Recommendations.ProjectSuggestions,
	)
	return data, nil
}

// MergeRecommendations concatenates lists in order, dropping blanks and
// duplicates (compared trimmed and lowercased), and keeps the first three.
func MergeRecommendations(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, rec := range list {
			key := strings.ToLower(strings.TrimSpace(rec))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, rec)
		}
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

// MockData is returned when no analyzer is configured
func MockData() *types.GitHubData {
	confidence := 75
	data := emptyData()
	data.Source = SourceMock
	data.InferredSeniority = "mid to senior-level"
	data.CoreStrengths = []string{"React", "Node.js"}
	data.CollaborationStyle = "active team contributor"
	data.Recommendations = []string{
		"Increase commit frequency",
		"Learn Next.js 14",
		"Build fullstack application",
	}
	data.ConfidencePercentage = &confidence
	data.Justification = "Mock data: Candidate shows good technical skills but needs more consistent activity."
	return data
}

func emptyData() *types.GitHubData {
	return &types.GitHubData{
		Ownership:       []string{},
		Patterns:        []string{},
		Quality:         []string{},
		RiskFlags:       []string{},
		CoreStrengths:   []string{},
		Recommendations: []string{},
		Activity:        types.GitHubActivity{TopLanguages: []string{}},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
