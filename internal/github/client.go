package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/types"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

const (
	repoFetchLimit   = 30
	repoVerifyLimit  = 20
	readmeChars      = 1500
	readmeConcurrent = 4
)

var languageAliases = map[string]string{
	"js": "javascript",
	"ts": "typescript",
	"py": "python",
}

// Client reads public repository data from the GitHub REST API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client. baseURL defaults to the public API.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logging.Component(logger, "github"),
	}
}

type apiRepo struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	HTMLURL     string  `json:"html_url"`
	Stars       int     `json:"stargazers_count"`
	Language    *string `json:"language"`
	Private     bool    `json:"private"`
	Fork        bool    `json:"fork"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode github response: %w", err)
	}
	return resp.StatusCode, nil
}

// Repos returns the user's public, non-fork repositories ranked by relevance to
// skills. A missing user yields an empty list.
func (c *Client) Repos(ctx context.Context, username string, skills []string) ([]types.RepoSummary, error) {
	if username == "" {
		return []types.RepoSummary{}, nil
	}

	var raw []apiRepo
	query := url.Values{
		"type":      {"owner"},
		"sort":      {"updated"},
		"direction": {"desc"},
		"per_page":  {fmt.Sprint(repoFetchLimit)},
		"page":      {"1"},
	}
	status, err := c.get(ctx, "/users/"+url.PathEscape(username)+"/repos", query, &raw)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		c.logger.Info("github user not found", zap.String("username", username))
		return []types.RepoSummary{}, nil
	default:
		return nil, fmt.Errorf("github api returned status %d", status)
	}

	return rankRepos(raw, skills), nil
}

// rankRepos scores repositories: stars, +5 with a description, +10 when the
// language overlaps the skills. Private repos and forks are dropped.
func rankRepos(raw []apiRepo, skills []string) []types.RepoSummary {
	langs := skillLanguages(skills)

	repos := make([]types.RepoSummary, 0, len(raw))
	for _, r := range raw {
		if r.Private || r.Fork {
			continue
		}
		repo := types.RepoSummary{
			Name:  r.Name,
			URL:   r.HTMLURL,
			Stars: r.Stars,
			Score: r.Stars,
		}
		if r.Description != nil && *r.Description != "" {
			repo.Description = *r.Description
			repo.Score += 5
		}
		if r.Language != nil {
			repo.Language = *r.Language
			if languageMatches(strings.ToLower(repo.Language), langs) {
				repo.Score += 10
			}
		}
		repos = append(repos, repo)
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Score > repos[j].Score
	})
	if len(repos) > repoVerifyLimit {
		repos = repos[:repoVerifyLimit]
	}
	return repos
}

func skillLanguages(skills []string) []string {
	langs := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		langs = append(langs, s)
		if alias, ok := languageAliases[s]; ok {
			langs = append(langs, alias)
		}
	}
	return langs
}

func languageMatches(repoLang string, langs []string) bool {
	if repoLang == "" {
		return false
	}
	for _, l := range langs {
		if strings.Contains(repoLang, l) || strings.Contains(l, repoLang) {
			return true
		}
	}
	return false
}

// Readme returns the first 1500 characters of a repository README, or "" when
// it has none.
func (c *Client) Readme(ctx context.Context, owner, repo string) (string, error) {
	var body struct {
		Content string `json:"content"`
	}
	status, err := c.get(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo)+"/readme", nil, &body)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode readme: %w", err)
	}
	runes := []rune(strings.ToValidUTF8(string(decoded), ""))
	if len(runes) > readmeChars {
		runes = runes[:readmeChars]
	}
	return string(runes), nil
}

// AttachReadmes fetches READMEs for repos concurrently. Failures leave the
// README empty.
func (c *Client) AttachReadmes(ctx context.Context, owner string, repos []types.RepoSummary) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readmeConcurrent)
	for i := range repos {
		i := i
		g.Go(func() error {
			readme, err := c.Readme(ctx, owner, repos[i].Name)
			if err != nil {
				c.logger.Debug("readme fetch failed", zap.String("repo", repos[i].Name), zap.Error(err))
				return nil
			}
			repos[i].Readme = readme
			return nil
		})
	}
	_ = g.Wait()
}
