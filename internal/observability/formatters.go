// Package observability renders ranked candidate lists for terminal output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hiring-desk/internal/decisioncard"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/recruiter"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps list sections such as skills
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func joinFirst(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(items[:n], ", "), len(items)-n)
}

// PrintJob outputs the posting a list was ranked against.
func (p *Printer) PrintJob(job matching.JobPosting) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	if job.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	}
	sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", job.EmploymentType))
	sb.WriteString(fmt.Sprintf("Salary:   %d-%d %s", job.SalaryMin, job.SalaryMax, job.Currency))
	if len(job.RequiredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills:   %s", joinFirst(job.RequiredSkills, maxItemsToShow)))
	}
	p.printBox("JOB "+job.ID, sb.String())
}

// PrintCandidates outputs every ranked candidate with its scores and decision.
func (p *Printer) PrintCandidates(list *recruiter.CandidateList) {
	if list == nil {
		return
	}
	if len(list.Candidates) == 0 {
		p.printBox("CANDIDATES", "No candidates match this job")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d candidates, sorted by %s\n", list.Total, list.SortBy))
	for i, c := range list.Candidates {
		sb.WriteString(fmt.Sprintf("\n#%d  %s (%s)\n", i+1, c.Name, c.EngineeringType))
		sb.WriteString(fmt.Sprintf("    Score: %d  Skills: %d%%  Fit: %s\n",
			c.DynamicScore, c.SkillMatchPercent, matching.FitLevelFor(c.DynamicScore)))
		sb.WriteString(fmt.Sprintf("    %s, %d yrs", c.Location, c.YearsOfExperience))
		if c.Decision != "" {
			sb.WriteString("  [" + c.Decision + "]")
		}
		if len(c.TopSkills) > 0 {
			sb.WriteString(fmt.Sprintf("\n    %s", joinFirst(c.TopSkills, 3)))
		}
		sb.WriteString("\n")
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMetrics outputs the dashboard summary.
func (p *Printer) PrintMetrics(m decisioncard.Metrics) {
	content := fmt.Sprintf("Candidates:        %d\nAverage score:     %d\nInterviews:        %d (pipeline %d)\nSkill threshold:   %d%%",
		m.TotalCandidates, m.AverageMatchScore, m.ActiveInterviews, m.InterviewsInPipeline, m.SkillMatchThreshold)
	p.printBox("DASHBOARD", content)
}
