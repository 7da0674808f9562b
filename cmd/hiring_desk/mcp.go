package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/decisioncard"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/recruiter"
)

const mcpServerVersion = "1.0.0"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve candidate ranking tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing read-only
tools over job postings and ranked candidates. Logs go to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	logOutput = "stderr"
	ctx := context.Background()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	apps := applications.NewService(e.db, nil, nil, nil, e.logger)
	dash := recruiter.NewService(e.db, apps, recruiter.NewMemoryStore(), e.logger)
	return mcpserver.ServeStdio(newMCPServer(dash, apps))
}

func rankCandidatesTool() mcp.Tool {
	return mcp.NewTool("rank_candidates",
		mcp.WithDescription("Rank every application, whatever its processing status, against a job posting"),
		mcp.WithString("job_id", mcp.Description("Job posting id or slug; \"all\" or empty ranks against All Positions, a job with no title, location, salary or skill constraints")),
		mcp.WithString("sort", mcp.Description("score-desc (default), score-asc, exp-desc or exp-asc")),
	)
}

func newMCPServer(dash *recruiter.Service, apps *applications.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("hiring-desk", mcpServerVersion)

	s.AddTool(mcp.NewTool("list_jobs",
		mcp.WithDescription("List all job postings"),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jobs, err := dash.ListJobs(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list jobs: %v", err)), nil
		}
		return jsonResult(jobs)
	})

	s.AddTool(rankCandidatesTool(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		q := recruiter.CandidateQuery{JobID: stringArg(args, "job_id")}
		if sort := stringArg(args, "sort"); sort != "" {
			q.Sort = matching.SortKey(sort)
			if !q.Sort.Valid() {
				return mcp.NewToolResultError(fmt.Sprintf("unknown sort %q", sort)), nil
			}
		}
		list, err := dash.Candidates(ctx, uuid.Nil, q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to rank candidates: %v", err)), nil
		}
		return jsonResult(list)
	})

	s.AddTool(mcp.NewTool("get_candidate",
		mcp.WithDescription("Get the full profile of one candidate"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		id, err := uuid.Parse(stringArg(args, "id"))
		if err != nil {
			return mcp.NewToolResultError("invalid candidate id"), nil
		}
		app, err := apps.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(decisioncard.ToProfile(app, "/applications/"+id.String()+"/resume"))
	})

	s.AddTool(mcp.NewTool("dashboard_metrics",
		mcp.WithDescription("Summary metrics over all candidates"),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		m, err := dash.Metrics(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to compute metrics: %v", err)), nil
		}
		return jsonResult(m)
	})

	return s
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
