package resume

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecodeclub/ekit/slice"

	"github.com/jonathan/hiring-desk/internal/types"
)

var yearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)`)

var builtVerbs = []string{"built", "developed", "created", "designed", "launched", "shipped", "implemented", "led"}

// knownSkills maps a lowercase token to its display name.
var knownSkills = map[string]string{
	"go": "Go", "golang": "Go", "python": "Python", "java": "Java", "typescript": "TypeScript",
	"javascript": "JavaScript", "react": "React", "next.js": "Next.js", "vue": "Vue",
	"angular": "Angular", "node.js": "Node.js", "nodejs": "Node.js", "django": "Django",
	"fastapi": "FastAPI", "flask": "Flask", "postgresql": "PostgreSQL", "postgres": "PostgreSQL",
	"mysql": "MySQL", "mongodb": "MongoDB", "redis": "Redis", "graphql": "GraphQL",
	"docker": "Docker", "kubernetes": "Kubernetes", "aws": "AWS", "gcp": "GCP", "azure": "Azure",
	"terraform": "Terraform", "rust": "Rust", "c++": "C++", "ruby": "Ruby", "rails": "Rails",
	"kafka": "Kafka", "rabbitmq": "RabbitMQ", "tailwind": "Tailwind CSS", "css": "CSS", "html": "HTML",
}

var roleKeywords = map[string][]string{
	"Frontend Engineer": {"React", "Vue", "Angular", "Next.js", "CSS", "HTML", "Tailwind CSS"},
	"Backend Engineer":  {"Go", "Java", "Django", "FastAPI", "Flask", "PostgreSQL", "MySQL", "Kafka", "RabbitMQ", "Redis"},
	"DevOps Engineer":   {"Docker", "Kubernetes", "Terraform", "AWS", "GCP", "Azure"},
}

// Heuristic extracts resume data without a language model
type Heuristic struct{}

// Extract scans text for known skills, a years figure and accomplishment lines
func (Heuristic) Extract(_ context.Context, text string) (*types.ResumeData, error) {
	if strings.TrimSpace(text) == "" {
		return Unparseable(), nil
	}

	data := &types.ResumeData{
		Skills:    scanSkills(text),
		Built:     scanBuilt(text),
		RiskFlags: []string{},
	}
	data.RoleLabel = roleFor(data.Skills)

	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			data.YearsExperience = &years
			data.ExperienceSummary = fmt.Sprintf("%d years building %s systems", years, strings.ToLower(strings.TrimSuffix(data.RoleLabel, " Engineer")))
		}
	}
	if data.YearsExperience == nil {
		data.RiskFlags = append(data.RiskFlags, "Years of experience not stated")
	}
	if len(data.Built) == 0 {
		data.RiskFlags = append(data.RiskFlags, "No concrete projects described")
	}
	return data, nil
}

func scanSkills(text string) []string {
	var skills []string
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t' || r == '(' || r == ')' || r == '/' || r == ';' || r == '|'
	}) {
		tok = strings.Trim(tok, ".:")
		name, ok := knownSkills[tok]
		if ok && !slice.Contains(skills, name) {
			skills = append(skills, name)
		}
	}
	if skills == nil {
		return []string{}
	}
	return skills
}

func scanBuilt(text string) []string {
	built := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*"))
		if line == "" {
			continue
		}
		first := strings.ToLower(strings.Fields(line)[0])
		if !slice.Contains(builtVerbs, first) {
			continue
		}
		words := strings.Fields(line)
		if len(words) > 10 {
			words = words[:10]
		}
		built = append(built, strings.Join(words, " "))
		if len(built) == MaxBuilt {
			break
		}
	}
	return built
}

func roleFor(skills []string) string {
	best, bestHits := "Fullstack Engineer", 0
	counts := map[string]int{}
	for role, keywords := range roleKeywords {
		for _, kw := range keywords {
			if slice.Contains(skills, kw) {
				counts[role]++
			}
		}
	}
	front, back := counts["Frontend Engineer"], counts["Backend Engineer"]
	if front > 0 && back > 0 {
		return best
	}
	for _, role := range []string{"Backend Engineer", "Frontend Engineer", "DevOps Engineer"} {
		if counts[role] > bestHits {
			best, bestHits = role, counts[role]
		}
	}
	return best
}
