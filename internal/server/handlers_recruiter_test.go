package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-desk/internal/matching"
	"github.com/jonathan/hiring-desk/internal/recruiter"
)

func jobForm() map[string]any {
	return map[string]any{
		"job_title":        "Backend Engineer",
		"company_name":     "Acme",
		"location":         "Sydney",
		"salary_min":       120000,
		"salary_max":       150000,
		"engineering_type": "Backend",
		"required_skills":  []string{"Go", "go", "PostgreSQL"},
		"job_description":  "Build the intake pipeline.",
	}
}

func TestJobPostings_CRUD(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t)

	rec := e.json(t, http.MethodPost, "/job-postings", tok, jobForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, recruiter.NextAfterPosting, body["next"])
	posting := body["job_posting"].(map[string]any)
	assert.Equal(t, []any{"Go", "PostgreSQL"}, posting["required_skills"])
	assert.Equal(t, recruiter.DefaultEmploymentType, posting["employment_type"])
	assert.NotEmpty(t, posting["recruiter_id"])
	id := posting["id"].(string)

	rec = e.json(t, http.MethodGet, "/job-postings", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = e.json(t, http.MethodGet, "/job-postings/"+id, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend Engineer", decode(t, rec)["job_title"])

	rec = e.json(t, http.MethodDelete, "/job-postings/"+id, tok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.json(t, http.MethodGet, "/job-postings/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.json(t, http.MethodDelete, "/job-postings/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.json(t, http.MethodDelete, "/job-postings/job-001", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobPostings_Validation(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t)

	form := jobForm()
	form["job_title"] = "  "
	form["required_skills"] = []string{}
	rec := e.json(t, http.MethodPost, "/job-postings", tok, form)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]any)
	assert.Equal(t, "Job title is required", fields["job_title"])
	assert.Contains(t, fields, "required_skills")

	rec = e.json(t, http.MethodPost, "/job-postings", tok, "nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardState(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t)

	rec := e.json(t, http.MethodGet, "/recruiter/state", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode(t, rec)
	assert.Equal(t, matching.AllPositionsID, state["selected_job_id"])
	assert.Equal(t, string(matching.SortScoreDesc), state["sort_by"])

	rec = e.json(t, http.MethodPut, "/recruiter/state/sort", tok, map[string]string{"sort_by": "exp-asc"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "exp-asc", decode(t, rec)["sort_by"])

	rec = e.json(t, http.MethodPut, "/recruiter/state/sort", tok, map[string]string{"sort_by": "alphabetical"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.json(t, http.MethodPut, "/recruiter/state/job", tok, map[string]string{"job_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.json(t, http.MethodPatch, "/recruiter/state/overrides", tok, map[string]any{"location": "Remote"})
	require.Equal(t, http.StatusOK, rec.Code)
	overrides := decode(t, rec)["overrides"].(map[string]any)
	assert.Equal(t, "Remote", overrides["location"])

	cid := uuid.NewString()
	rec = e.json(t, http.MethodPost, "/recruiter/state/interview/"+cid, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{cid}, decode(t, rec)["interview"])

	rec = e.json(t, http.MethodPost, "/recruiter/state/reject/"+cid, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode(t, rec)
	assert.Empty(t, state["interview"])
	assert.Equal(t, []any{cid}, state["rejected"])

	rec = e.json(t, http.MethodDelete, "/recruiter/state/decisions/"+cid, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["rejected"])
}

func TestDashboardState_SelectJobClearsOverrides(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t)

	rec := e.json(t, http.MethodPost, "/job-postings", tok, jobForm())
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["job_posting"].(map[string]any)["id"].(string)

	rec = e.json(t, http.MethodPatch, "/recruiter/state/overrides", tok, map[string]any{"location": "Remote"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.json(t, http.MethodPut, "/recruiter/state/job", tok, map[string]string{"job_id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode(t, rec)
	assert.Equal(t, id, state["selected_job_id"])
	assert.Empty(t, state["overrides"])
}

func TestCandidates(t *testing.T) {
	e := newTestEnv(t)
	appID := e.createApplication(t)
	tok := e.token(t)

	rec := e.json(t, http.MethodGet, "/candidates", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode(t, rec)
	assert.EqualValues(t, 1, list["total"])
	assert.Equal(t, string(matching.SortScoreDesc), list["sort_by"])

	rec = e.json(t, http.MethodGet, "/candidates?sort=exp-desc&job_id=all", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "exp-desc", decode(t, rec)["sort_by"])

	rec = e.json(t, http.MethodGet, "/candidates?sort=bogus", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.json(t, http.MethodGet, "/candidates?job_id=missing-slug", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.json(t, http.MethodGet, "/candidates/"+appID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)
	assert.Equal(t, "grace@example.com", profile["email"])
	assert.Equal(t, "/applications/"+appID+"/resume", profile["resume_url"])

	rec = e.json(t, http.MethodGet, "/candidates/"+uuid.NewString(), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.json(t, http.MethodGet, "/candidates/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardMetrics(t *testing.T) {
	e := newTestEnv(t)
	e.createApplication(t)
	e.createApplication(t)

	rec := e.json(t, http.MethodGet, "/dashboard/metrics", e.token(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.EqualValues(t, 2, m["total_candidates"])
	assert.EqualValues(t, matching.StrongThreshold, m["skill_match_threshold"])
}
