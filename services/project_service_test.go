package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

func TestCreateProjectDerivesSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Criação de Site"})
	require.NoError(t, err)
	assert.Equal(t, "criacao-de-site", first.Slug)
	assert.Equal(t, models.ProjectStatusPlanning, first.Status)

	second, err := f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Criação de Site"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "criacao-de-site-"), second.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestCreateProjectExplicitSlugConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Portal", Slug: "acme-portal"})
	require.NoError(t, err)

	_, err = f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Other", Slug: "acme-portal"})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Other", Slug: "Not A Slug"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCreateAndRefetchProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	progress := 30

	var start, end dto.Date
	require.NoError(t, start.UnmarshalJSON([]byte(`"2026-01-05"`)))
	require.NoError(t, end.UnmarshalJSON([]byte(`"2026-03-31"`)))

	created, err := f.projects.CreateProject(ctx, dto.ProjectRequest{
		Name:          "Mobile App",
		Description:   "iOS and Android",
		Status:        models.ProjectStatusInProgress,
		Progress:      &progress,
		ClientName:    "ACME",
		StartDate:     &start,
		TargetEndDate: &end,
	})
	require.NoError(t, err)

	fetched, err := f.projects.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobile App", fetched.Name)
	assert.Equal(t, "iOS and Android", fetched.Description)
	assert.Equal(t, models.ProjectStatusInProgress, fetched.Status)
	assert.Equal(t, 30, fetched.Progress)
	assert.Equal(t, "ACME", fetched.ClientName)
	require.NotNil(t, fetched.StartDate)
	assert.Equal(t, "2026-01-05", fetched.StartDate.Format("2006-01-02"))

	bySlug, err := f.projects.GetProjectBySlug(ctx, "mobile-app")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
}

func TestCreateProjectRejectsInvertedDates(t *testing.T) {
	f := newFixture(t)
	var start, end dto.Date
	require.NoError(t, start.UnmarshalJSON([]byte(`"2026-03-01"`)))
	require.NoError(t, end.UnmarshalJSON([]byte(`"2026-01-01"`)))

	_, err := f.projects.CreateProject(context.Background(), dto.ProjectRequest{Name: "X", StartDate: &start, TargetEndDate: &end})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProgressFollowsRoadmap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manual := 55

	project, err := f.projects.CreateProject(ctx, dto.ProjectRequest{Name: "Progress", Progress: &manual})
	require.NoError(t, err)

	// Without roadmap items the submitted value is kept
	updated, err := f.projects.UpdateProject(ctx, project.ID, dto.ProjectRequest{Name: "Progress", Progress: &manual})
	require.NoError(t, err)
	assert.Equal(t, 55, updated.Progress)

	done := f.item(t, project.ID, "Design", models.WorkStatusDone)
	f.item(t, project.ID, "Build", models.WorkStatusInProgress)
	f.item(t, project.ID, "Launch", models.WorkStatusNotStarted)

	fetched, err := f.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, fetched.Progress)

	// Manual values are ignored once a roadmap exists
	updated, err = f.projects.UpdateProject(ctx, project.ID, dto.ProjectRequest{Name: "Progress", Progress: &manual})
	require.NoError(t, err)
	assert.Equal(t, 33, updated.Progress)

	require.NoError(t, f.roadmap.DeleteItem(ctx, done.ID))
	fetched, err = f.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.Progress)
}

func TestProgressPercentRounds(t *testing.T) {
	assert.Equal(t, 0, progressPercent(0, 0))
	assert.Equal(t, 67, progressPercent(3, 2))
	assert.Equal(t, 100, progressPercent(4, 4))
	assert.Equal(t, 13, progressPercent(8, 1))
}

func TestListProjectsNormalizesFilter(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		f.project(t, name)
	}

	resp, err := f.projects.ListProjects(context.Background(), dto.ListFilter{PageSize: 2, SortBy: "drop table"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Projects, 2)

	resp, err = f.projects.ListProjects(context.Background(), dto.ListFilter{Search: "gam"})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Gamma", resp.Projects[0].Name)
}

func TestDeleteProjectLeavesOtherProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doomed := f.project(t, "Doomed")
	kept := f.project(t, "Kept")
	f.item(t, doomed.ID, "A", models.WorkStatusDone)
	keptItem := f.item(t, kept.ID, "B", models.WorkStatusDone)
	f.report(t, doomed.ID, "Weekly", true)
	keptReport := f.report(t, kept.ID, "Weekly", true)

	require.NoError(t, f.projects.DeleteProject(ctx, doomed.ID))

	_, err := f.projects.GetProject(ctx, doomed.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	items, err := f.roadmap.ListItems(ctx, kept.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keptItem.ID, items[0].ID)

	reports, err := f.reports.ListReports(ctx, kept.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, keptReport.ID, reports[0].ID)

	assert.True(t, errors.Is(f.projects.DeleteProject(ctx, doomed.ID), ErrNotFound))
}
