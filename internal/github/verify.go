package github

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/llm"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/prompts"
	"github.com/jonathan/hiring-desk/internal/types"
)

// Keyword confidences
const (
	ConfidenceStrong = 85
	ConfidenceName   = 75
	ConfidenceDesc   = 60
)

var (
	wordPattern       = regexp.MustCompile(`\b\w+\b`)
	hyphenatedPattern = regexp.MustCompile(`\b\w+-\w+\b`)
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "with": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "this": true, "that": true, "these": true, "those": true, "system": true,
	"platform": true, "application": true, "full": true, "stack": true, "real": true,
	"time": true, "online": true, "connecting": true, "achieving": true, "recognition": true,
	"automated": true, "updates": true, "prototype": true,
}

var meaningfulShort = map[string]bool{
	"app": true, "ai": true, "ui": true, "cms": true, "api": true,
	"iot": true, "ml": true, "db": true, "blog": true,
}

// KeyTerms extracts matching terms from a claim. Hyphenated words contribute
// their long parts and the joined form.
func KeyTerms(claim string) []string {
	lower := strings.ToLower(claim)
	var terms []string
	for _, w := range wordPattern.FindAllString(lower, -1) {
		if (len(w) > 3 && !stopwords[w]) || meaningfulShort[w] {
			terms = append(terms, w)
		}
	}
	for _, h := range hyphenatedPattern.FindAllString(lower, -1) {
		for _, part := range strings.Split(h, "-") {
			if len(part) > 3 {
				terms = append(terms, part)
			}
		}
		terms = append(terms, strings.ReplaceAll(h, "-", ""))
	}
	return terms
}

// MatchKeywords scores each repository against the claim (10 per name hit, 1
// per description hit) and maps the best score to a confidence.
func MatchKeywords(claim string, repos []types.RepoSummary) types.BuiltVerification {
	result := types.BuiltVerification{Item: claim}
	terms := KeyTerms(claim)
	if len(terms) == 0 {
		return result
	}

	bestScore := 0
	var best *types.RepoSummary
	for i := range repos {
		name := strings.ToLower(repos[i].Name)
		desc := strings.ToLower(repos[i].Description)
		score := 0
		for _, term := range terms {
			if strings.Contains(name, term) {
				score += 10
			}
			if strings.Contains(desc, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = &repos[i]
		}
	}
	if best == nil {
		return result
	}

	result.MatchedRepo = best.Name
	result.RepoURL = best.URL
	switch {
	case bestScore >= 10:
		result.Confidence = ConfidenceStrong
	case bestScore >= 5:
		result.Confidence = ConfidenceName
	default:
		result.Confidence = ConfidenceDesc
	}
	return result
}

// Verifier checks resume "built" claims against repositories
type Verifier struct {
	llm    llm.Client
	logger *zap.Logger
}

// NewVerifier creates a verifier. client may be nil to disable the model fallback.
func NewVerifier(client llm.Client, logger *zap.Logger) *Verifier {
	return &Verifier{llm: client, logger: logging.Component(logger, "verify")}
}

// Verify returns one verification per claim, in order
func (v *Verifier) Verify(ctx context.Context, built []string, repos []types.RepoSummary) []types.BuiltVerification {
	out := make([]types.BuiltVerification, 0, len(built))
	for _, claim := range built {
		if len(repos) == 0 {
			out = append(out, types.BuiltVerification{Item: claim})
			continue
		}
		result := MatchKeywords(claim, repos)
		if result.Confidence < ConfidenceDesc && v.llm != nil {
			if ai, err := v.matchWithLLM(ctx, claim, repos); err != nil {
				v.logger.Warn("model verification failed", zap.String("claim", claim), zap.Error(err))
			} else if ai.Confidence > result.Confidence {
				result = ai
			}
		}
		out = append(out, result)
	}
	return out
}

func (v *Verifier) matchWithLLM(ctx context.Context, claim string, repos []types.RepoSummary) (types.BuiltVerification, error) {
	result := types.BuiltVerification{Item: claim}

	var sb strings.Builder
	for i, r := range repos {
		fmt.Fprintf(&sb, "%d. NAME: %s\n   Description: %s\n", i+1, r.Name, orDefault(r.Description, "(none)"))
		if r.Readme != "" {
			fmt.Fprintf(&sb, "   README: %s\n", logging.Truncate(r.Readme, 400))
		}
	}

	input := prompts.Format(prompts.MustGet("extraction.json", "repo-match-input"), map[string]string{
		"Claim":        claim,
		"Repositories": sb.String(),
	})
	raw, err := v.llm.GenerateJSON(ctx, llm.RepoMatchSchema().Prompt(input), llm.TierLite)
	if err != nil {
		return result, err
	}
	var answer struct {
		Index      int     `json:"matched_repo_index"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &answer); err != nil {
		return result, fmt.Errorf("failed to decode model answer: %w", err)
	}

	result.Confidence = clampPercent(int(answer.Confidence + 0.5))
	if answer.Index >= 1 && answer.Index <= len(repos) {
		repo := repos[answer.Index-1]
		result.MatchedRepo = repo.Name
		result.RepoURL = repo.URL
	} else {
		// without a repository the claim is unverified
		result.Confidence = 0
	}
	return result, nil
}

func clampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
