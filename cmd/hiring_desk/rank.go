package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/observability"
	"github.com/jonathan/hiring-desk/internal/recruiter"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print ranked candidates for a job posting",
	Long: `Rank every ready candidate against a job posting and print the list, the
same ordering the dashboard shows before any filter overrides.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("job", matching.AllPositionsID, "job posting id or slug")
	rankCmd.Flags().String("sort", string(matching.SortScoreDesc), "score-desc, score-asc, exp-desc or exp-asc")
	rankCmd.Flags().Bool("metrics", false, "also print dashboard metrics")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	jobID, _ := flags.GetString("job")
	sort, _ := flags.GetString("sort")
	withMetrics, _ := flags.GetBool("metrics")

	key := matching.SortKey(sort)
	if !key.Valid() {
		return fmt.Errorf("unknown sort %q", sort)
	}

	ctx := context.Background()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	apps := applications.NewService(e.db, nil, nil, nil, e.logger)
	dash := recruiter.NewService(e.db, apps, recruiter.NewMemoryStore(), e.logger)

	list, err := dash.Candidates(ctx, uuid.Nil, recruiter.CandidateQuery{JobID: jobID, Sort: key})
	if err != nil {
		return err
	}

	p := observability.NewPrinter(os.Stdout)
	p.PrintJob(list.Job)
	p.PrintCandidates(list)
	if withMetrics {
		m, err := dash.Metrics(ctx)
		if err != nil {
			return err
		}
		p.PrintMetrics(m)
	}
	return nil
}
