// Package decisioncard turns stored applications into the views recruiters see:
// decision cards, ranked-list candidates, full profiles and dashboard metrics.
package decisioncard

import (
	"strings"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/types"
)

// DefaultScore stands in for a missing suitability percentage.
const DefaultScore = 75

// SkillMatchThreshold is reported on the dashboard.
const SkillMatchThreshold = matching.StrongThreshold

// DecisionCard is the summary a recruiter triages from.
type DecisionCard struct {
	ID                    uuid.UUID                 `json:"id"`
	Name                  string                    `json:"name"`
	RoleLabel             string                    `json:"role_label,omitempty"`
	Built                 []string                  `json:"built"`
	GitHubSignals         *types.GitHubData         `json:"github_signals,omitempty"`
	RiskFlags             []string                  `json:"risk_flags"`
	InferredSeniority     string                    `json:"inferred_seniority,omitempty"`
	CoreStrengths         []string                  `json:"core_strengths"`
	CollaborationStyle    string                    `json:"collaboration_style,omitempty"`
	Recommendations       []string                  `json:"recommendations"`
	Justification         string                    `json:"justification,omitempty"`
	BuiltVerification     []types.BuiltVerification `json:"built_verification,omitempty"`
	SuitabilityPercentage *int                      `json:"suitability_percentage,omitempty"`
	ConfidencePercentage  *int                      `json:"confidence_percentage,omitempty"`
	Status                types.ApplicationStatus   `json:"status"`
	CreatedAt             time.Time                 `json:"created_at"`
}

// Build assembles the decision card for app.
func Build(app *db.Application) DecisionCard {
	card := DecisionCard{
		ID:              app.ID,
		Name:            app.Name,
		Built:           []string{},
		RiskFlags:       []string{},
		CoreStrengths:   []string{},
		Recommendations: []string{},
		Status:          app.Status,
		CreatedAt:       app.CreatedAt,
	}

	if r := app.ResumeData; r != nil {
		card.RoleLabel = r.RoleLabel
		card.Built = orEmpty(r.Built)
		card.RiskFlags = append(card.RiskFlags, r.RiskFlags...)
		card.BuiltVerification = r.BuiltVerification
		card.SuitabilityPercentage = r.SuitabilityPercentage
	}

	if g := app.GitHubData; g != nil {
		card.GitHubSignals = g
		card.RiskFlags = append(card.RiskFlags, g.RiskFlags...)
		card.InferredSeniority = g.InferredSeniority
		card.CoreStrengths = orEmpty(g.CoreStrengths)
		card.CollaborationStyle = g.CollaborationStyle
		card.Recommendations = orEmpty(g.Recommendations)
		card.Justification = g.Justification
		card.ConfidencePercentage = g.ConfidencePercentage
	}

	return card
}

// BuildAll maps Build over apps, keeping their order.
func BuildAll(apps []db.Application) []DecisionCard {
	return slice.Map(apps, func(_ int, app db.Application) DecisionCard {
		return Build(&app)
	})
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// engineeringType infers the candidate's engineering type. Seniority text from
// the analyzer wins, then the resume role label, then the focus picked on intake.
func engineeringType(app *db.Application) string {
	var hints []string
	if app.GitHubData != nil {
		hints = append(hints, app.GitHubData.InferredSeniority)
	}
	if app.ResumeData != nil {
		hints = append(hints, app.ResumeData.RoleLabel)
	}
	hints = append(hints, app.Focus)

	for _, hint := range hints {
		h := strings.ToLower(hint)
		switch {
		case strings.Contains(h, "frontend") || strings.Contains(h, "front-end"):
			return matching.TypeFrontend
		case strings.Contains(h, "backend") || strings.Contains(h, "back-end"):
			return matching.TypeBackend
		case strings.Contains(h, "devops"):
			return matching.TypeDevOps
		case strings.Contains(h, "fullstack") || strings.Contains(h, "full-stack"):
			return matching.TypeFullStack
		}
	}
	return matching.TypeFullStack
}
