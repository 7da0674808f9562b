package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/hiring-desk/internal/prompts"
)

// ExtractionSchema describes a JSON answer the model must produce.
type ExtractionSchema struct {
	Name        string
	Description string // instructions placed before the output shape
	Fields      []SchemaField
}

// SchemaField is one key of the expected JSON object.
type SchemaField struct {
	Name        string
	Type        string // shape hint such as number or ["string"]; defaults to string
	Description string
	Required    bool
}

// Prompt renders the instructions, the expected JSON shape and the input text.
func (s ExtractionSchema) Prompt(input string) string {
	var sb strings.Builder
	sb.WriteString(s.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, f := range s.Fields {
		hint := f.Type
		if hint == "" {
			hint = "string"
		}
		fmt.Fprintf(&sb, "  %q: %s", f.Name, hint)
		if f.Required {
			sb.WriteString(" (required)")
		}
		if f.Description != "" {
			sb.WriteString(" // " + f.Description)
		}
		if i < len(s.Fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only what the input states; do not invent details.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(input)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// ResumeSchema returns the extraction schema for applicant resumes.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "Resume",
		Description: prompts.MustGet("extraction.json", "resume"),
		Fields: []SchemaField{
			{
				Name:        "role_label",
				Type:        "\"string\"",
				Description: "One of: Backend Engineer, Frontend Engineer, Fullstack Engineer, DevOps Engineer, Data Engineer, Mobile Engineer",
				Required:    true,
			},
			{
				Name:        "built",
				Type:        "[\"string\"]",
				Description: "Up to 3 systems or products the candidate built or owned, 6-10 words each, no technology names, ordered by impact",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Languages, frameworks and platforms the candidate has used",
				Required:    true,
			},
			{
				Name:        "years_experience",
				Type:        "number",
				Description: "Total years of professional engineering experience",
				Required:    false,
			},
			{
				Name:        "experience_summary",
				Type:        "\"string\"",
				Description: "Format: '<X> years building <type> systems'",
				Required:    false,
			},
			{
				Name:        "risk_flags",
				Type:        "[\"string\"]",
				Description: "Up to 3 specific, factual concerns (e.g. 'Multiple roles under one year'); empty when none",
				Required:    true,
			},
		},
	}
}

// RepoMatchSchema returns the schema used when asking the model whether a
// claimed project corresponds to one of the candidate's repositories.
func RepoMatchSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "RepoMatch",
		Description: prompts.MustGet("extraction.json", "repo-match"),
		Fields: []SchemaField{
			{
				Name:        "matched_repo_index",
				Type:        "number",
				Description: "1-based index of the best matching repository, or -1 when none matches",
				Required:    true,
			},
			{
				Name:        "confidence",
				Type:        "number",
				Description: "0-100",
				Required:    true,
			},
		},
	}
}
