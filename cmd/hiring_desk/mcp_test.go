package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-desk/internal/matching"
)

func toolArgDescription(t *testing.T, props map[string]any, name string) string {
	t.Helper()
	prop, ok := props[name].(map[string]any)
	require.True(t, ok, "missing argument %s", name)
	desc, _ := prop["description"].(string)
	return desc
}

func TestRankCandidatesTool_Descriptions(t *testing.T) {
	tool := rankCandidatesTool()
	assert.Equal(t, "rank_candidates", tool.Name)
	assert.Contains(t, tool.Description, "every application")
	assert.NotContains(t, tool.Description, "ready candidates")

	sortDesc := toolArgDescription(t, tool.InputSchema.Properties, "sort")
	for _, key := range []matching.SortKey{matching.SortScoreDesc, matching.SortScoreAsc, matching.SortExpDesc, matching.SortExpAsc} {
		assert.Contains(t, sortDesc, string(key))
	}

	jobDesc := toolArgDescription(t, tool.InputSchema.Properties, "job_id")
	assert.Contains(t, jobDesc, "All Positions")
	assert.NotContains(t, jobDesc, "every posting")
}
