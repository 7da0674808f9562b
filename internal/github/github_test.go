package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-desk/internal/llm"
	"github.com/jonathan/hiring-desk/internal/types"
)

func TestExtractUsername(t *testing.T) {
	tests := map[string]string{
		"https://github.com/octocat":           "octocat",
		"github.com/octocat/hello-world":       "octocat",
		"http://www.github.com/octocat/":       "octocat",
		"@octocat":                             "octocat",
		"octocat":                              "octocat",
		"  https://github.com/Jane-Doe?tab=1 ": "Jane-Doe",
		"https://github.com/":                  "",
		"":                                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractUsername(in), in)
	}
}

func ptr(s string) *string { return &s }

func TestRankRepos(t *testing.T) {
	raw := []apiRepo{
		{Name: "secret", Private: true, Stars: 100},
		{Name: "forked", Fork: true, Stars: 100},
		{Name: "plain", Stars: 3},
		{Name: "described", Stars: 1, Description: ptr("A thing")},
		{Name: "typed", Stars: 0, Language: ptr("TypeScript")},
	}

	repos := rankRepos(raw, []string{"ts"})
	require.Len(t, repos, 3)
	assert.Equal(t, "typed", repos[0].Name)
	assert.Equal(t, 10, repos[0].Score)
	assert.Equal(t, "described", repos[1].Name)
	assert.Equal(t, 6, repos[1].Score)
	assert.Equal(t, "plain", repos[2].Name)
}

func TestRankRepos_CapsAtTwenty(t *testing.T) {
	raw := make([]apiRepo, 25)
	for i := range raw {
		raw[i] = apiRepo{Name: "r", Stars: i}
	}
	repos := rankRepos(raw, nil)
	assert.Len(t, repos, 20)
	assert.Equal(t, 24, repos[0].Stars)
}

func newGitHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owner", r.URL.Query().Get("type"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"name": "food-rescue-app", "description": "Marketplace for surplus food", "html_url": "https://github.com/octocat/food-rescue-app", "stargazers_count": 4, "language": "Go"},
			{"name": "dotfiles", "html_url": "https://github.com/octocat/dotfiles", "stargazers_count": 0, "language": nil},
		})
	})
	mux.HandleFunc("GET /users/ghost/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /repos/octocat/food-rescue-app/readme", func(w http.ResponseWriter, _ *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte("# Food Rescue\n" + strings.Repeat("x", 2000)))
		_ = json.NewEncoder(w).Encode(map[string]string{"content": content})
	})
	mux.HandleFunc("GET /repos/octocat/dotfiles/readme", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ReposAndReadmes(t *testing.T) {
	srv := newGitHubServer(t)
	c := NewClient(srv.URL, "secret", nil)

	repos, err := c.Repos(context.Background(), "octocat", []string{"Go"})
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "food-rescue-app", repos[0].Name)
	assert.Equal(t, 19, repos[0].Score)

	c.AttachReadmes(context.Background(), "octocat", repos)
	assert.True(t, strings.HasPrefix(repos[0].Readme, "# Food Rescue"))
	assert.Len(t, []rune(repos[0].Readme), 1500)
	assert.Empty(t, repos[1].Readme)
}

func TestClient_UnknownUser(t *testing.T) {
	srv := newGitHubServer(t)
	repos, err := NewClient(srv.URL, "", nil).Repos(context.Background(), "ghost", nil)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestKeyTerms(t *testing.T) {
	terms := KeyTerms("Food-rescue marketplace app for the city")
	assert.Contains(t, terms, "food")
	assert.Contains(t, terms, "rescue")
	assert.Contains(t, terms, "marketplace")
	assert.Contains(t, terms, "app")
	assert.Contains(t, terms, "city")
	assert.Contains(t, terms, "foodrescue")
	assert.NotContains(t, terms, "for")
	assert.NotContains(t, terms, "the")

	assert.Empty(t, KeyTerms("a platform for the system"))
}

func TestMatchKeywords(t *testing.T) {
	repos := []types.RepoSummary{
		{Name: "citysense", Description: "Urban data"},
		{Name: "food-rescue-app", URL: "https://github.com/x/food-rescue-app", Description: "Marketplace"},
		{Name: "notes", Description: "poker night notes"},
	}

	v := MatchKeywords("Food-rescue marketplace", repos)
	assert.Equal(t, "food-rescue-app", v.MatchedRepo)
	assert.Equal(t, "https://github.com/x/food-rescue-app", v.RepoURL)
	assert.Equal(t, ConfidenceStrong, v.Confidence)

	v = MatchKeywords("Online poker tournaments", repos)
	assert.Equal(t, "notes", v.MatchedRepo)
	assert.Equal(t, ConfidenceDesc, v.Confidence)

	v = MatchKeywords("Quantum compiler", repos)
	assert.Equal(t, 0, v.Confidence)
	assert.Empty(t, v.MatchedRepo)
}

type stubLLM struct {
	response string
	calls    int
	prompt   string
}

func (s *stubLLM) GenerateContent(_ context.Context, p string, _ llm.ModelTier) (string, error) {
	s.calls++
	s.prompt = p
	return s.response, nil
}
func (s *stubLLM) GenerateJSON(ctx context.Context, p string, t llm.ModelTier) (string, error) {
	return s.GenerateContent(ctx, p, t)
}
func (s *stubLLM) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubLLM) Close() error                  { return nil }

func TestVerifier_FallsBackToModel(t *testing.T) {
	repos := []types.RepoSummary{
		{Name: "citysense", URL: "https://github.com/x/citysense"},
		{Name: "chipper", URL: "https://github.com/x/chipper"},
	}
	model := &stubLLM{response: `{"matched_repo_index": 2, "confidence": 70}`}
	v := NewVerifier(model, nil)

	out := v.Verify(context.Background(), []string{"Chess engine", "Citysense dashboard"}, repos)
	require.Len(t, out, 2)
	assert.Equal(t, "chipper", out[0].MatchedRepo)
	assert.Equal(t, 70, out[0].Confidence)
	assert.Equal(t, "citysense", out[1].MatchedRepo)
	assert.Equal(t, ConfidenceStrong, out[1].Confidence)
	assert.Equal(t, 1, model.calls, "strong keyword matches skip the model")
	assert.Contains(t, model.prompt, `Resume claim: "Chess engine"`)
	assert.Contains(t, model.prompt, "2. NAME: chipper")
}

func TestVerifier_NoRepos(t *testing.T) {
	out := NewVerifier(nil, nil).Verify(context.Background(), []string{"Thing"}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, types.BuiltVerification{Item: "Thing"}, out[0])
}

func TestVerifier_ModelNoMatch(t *testing.T) {
	model := &stubLLM{response: `{"matched_repo_index": -1, "confidence": 20}`}
	out := NewVerifier(model, nil).Verify(context.Background(), []string{"Chess engine"}, []types.RepoSummary{{Name: "zzz"}})
	assert.Equal(t, 0, out[0].Confidence)
}

func TestParseAnalyzerResponse(t *testing.T) {
	raw := map[string]any{
		"engineer_summary": map[string]any{
			"inferred_seniority":  "senior",
			"core_strengths":      []any{"Go", "Distributed systems"},
			"collaboration_style": "reviewer",
		},
		"hiring_recommendation": map[string]any{
			"confidence_percentage": float64(82),
			"justification":         "Strong backend work",
		},
		"recommendations": map[string]any{
			"github_improvements": []any{"Add tests", " add TESTS "},
			"skill_development":   []any{"", "Learn Rust"},
			"project_suggestions": []any{"Build a CLI", "Write docs"},
		},
	}

	data, err := ParseAnalyzerResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, SourceAnalyzer, data.Source)
	assert.Equal(t, "senior", data.InferredSeniority)
	assert.Equal(t, []string{"Go", "Distributed systems"}, data.CoreStrengths)
	require.NotNil(t, data.ConfidencePercentage)
	assert.Equal(t, 82, *data.ConfidencePercentage)
	assert.Equal(t, []string{"Add tests", "Learn Rust", "Build a CLI"}, data.Recommendations)
	assert.Equal(t, raw, data.Raw)

	_, err = ParseAnalyzerResponse(map[string]any{"error": "boom"})
	assert.Error(t, err)
}

func TestAnalyzer_MockWhenUnconfigured(t *testing.T) {
	data, err := NewAnalyzer("", nil).Analyze(context.Background(), AnalyzeParams{Username: "jane"})
	require.NoError(t, err)
	assert.Equal(t, SourceMock, data.Source)
	assert.Equal(t, "jane", data.Username)
	assert.Len(t, data.Recommendations, 3)
	assert.Equal(t, 75, *data.ConfidencePercentage)
}

func TestAnalyzer_CallsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "jane", q.Get("username"))
		assert.Equal(t, "Go,SQL", q.Get("required_skills"))
		assert.Equal(t, "mid", q.Get("seniority"))
		assert.Equal(t, "fullstack", q.Get("focus"))
		_, _ = w.Write([]byte(`{"engineer_summary": {"inferred_seniority": "mid"}}`))
	}))
	defer srv.Close()

	data, err := NewAnalyzer(srv.URL, nil).Analyze(context.Background(), AnalyzeParams{Username: "jane", RequiredSkills: []string{"Go", "SQL"}})
	require.NoError(t, err)
	assert.Equal(t, "mid", data.InferredSeniority)
	assert.Equal(t, "jane", data.Username)
}

func TestAnalyzer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAnalyzer(srv.URL, nil).Analyze(context.Background(), AnalyzeParams{Username: "jane"})
	assert.ErrorContains(t, err, "status 502")
}

func TestService_Signals(t *testing.T) {
	gh := newGitHubServer(t)
	svc := NewService(NewClient(gh.URL, "secret", nil), NewAnalyzer("", nil), NewVerifier(nil, nil), nil)

	years := 7
	res, err := svc.Signals(context.Background(), Request{
		GitHubURL:       "https://github.com/octocat",
		Built:           []string{"Food-rescue marketplace"},
		Skills:          []string{"Go"},
		YearsExperience: &years,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.Activity.PublicRepos)
	assert.Equal(t, 4, res.Data.Activity.TotalStars)
	assert.Equal(t, []string{"Go"}, res.Data.Activity.TopLanguages)
	assert.Contains(t, res.Data.Ownership, "Owns 2 public repositories")
	assert.Contains(t, res.Data.Quality, "1 of 2 repositories have a README")
	require.Len(t, res.Verification, 1)
	assert.Equal(t, "food-rescue-app", res.Verification[0].MatchedRepo)
	for _, r := range res.Data.Repos {
		assert.Empty(t, r.Readme, "readmes are not persisted")
	}
}

func TestService_SignalsRecordsFailures(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	svc := NewService(NewClient(broken.URL, "", nil), NewAnalyzer(broken.URL, nil), NewVerifier(nil, nil), nil)
	res, err := svc.Signals(context.Background(), Request{GitHubURL: "octocat", Built: []string{"Thing"}})
	require.NoError(t, err)
	assert.Contains(t, res.Data.RiskFlags, "GitHub analysis unavailable")
	assert.Contains(t, res.Data.RiskFlags, "Could not fetch GitHub repositories")
	assert.Contains(t, res.Data.RiskFlags, "No public repositories found")
	assert.Equal(t, 0, res.Verification[0].Confidence)
}

func TestSeniorityForYears(t *testing.T) {
	one, four, ten := 1, 4, 10
	assert.Equal(t, "mid", SeniorityForYears(nil))
	assert.Equal(t, "junior", SeniorityForYears(&one))
	assert.Equal(t, "mid", SeniorityForYears(&four))
	assert.Equal(t, "senior", SeniorityForYears(&ten))
}
