package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/llm"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/schemas"
	"github.com/jonathan/hiring-desk/internal/types"
)

// MaxBuilt caps the number of "built" items kept from an extraction.
const MaxBuilt = 3

// maxPromptChars bounds the resume text sent to the model.
const maxPromptChars = 20000

// Extractor turns resume text into structured data
type Extractor interface {
	Extract(ctx context.Context, text string) (*types.ResumeData, error)
}

// Unparseable is stored when no text could be read from the resume.
func Unparseable() *types.ResumeData {
	return &types.ResumeData{
		Error:     "Could not extract text from resume",
		Built:     []string{},
		Skills:    []string{},
		RiskFlags: []string{"Could not parse resume"},
	}
}

// LLMExtractor extracts resume data with a language model
type LLMExtractor struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMExtractor creates an extractor backed by client
func NewLLMExtractor(client llm.Client, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{client: client, logger: logging.Component(logger, "resume")}
}

// Extract asks the model for ResumeData and validates the answer
func (e *LLMExtractor) Extract(ctx context.Context, text string) (*types.ResumeData, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unparseable(), nil
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	prompt := llm.ResumeSchema().Prompt(text)
	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume: %w", err)
	}
	e.logger.Debug("resume extraction response", zap.String("raw", logging.Truncate(raw, 300)))

	return Parse(raw)
}

// Parse decodes a model response into normalized, schema-valid ResumeData.
func Parse(raw string) (*types.ResumeData, error) {
	var data types.ResumeData
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &data); err != nil {
		return nil, fmt.Errorf("failed to decode resume data: %w", err)
	}
	Normalize(&data)
	if err := schemas.Validate(schemas.ResumeData, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Normalize replaces nil slices, trims entries and caps the built list.
func Normalize(data *types.ResumeData) {
	data.Built = cleanList(data.Built)
	if len(data.Built) > MaxBuilt {
		data.Built = data.Built[:MaxBuilt]
	}
	data.Skills = cleanList(data.Skills)
	data.RiskFlags = cleanList(data.RiskFlags)
	if data.YearsExperience != nil && *data.YearsExperience < 0 {
		data.YearsExperience = nil
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
