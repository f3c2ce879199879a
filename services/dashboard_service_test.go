package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

func TestDashboardShowsOnlyClientFacingData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Client Portal")
	client := f.client(t, "c@example.com")
	_, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)
	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}

	f.item(t, project.ID, "Design", models.WorkStatusDone)
	_, err = f.sprints.CreateSprint(ctx, project.ID, dto.SprintRequest{Goal: "First"})
	require.NoError(t, err)
	f.report(t, project.ID, "Draft", false)
	published := f.report(t, project.ID, "Final", true)

	admin := Viewer{UserID: "admin", Role: models.RoleAdmin}
	hidden, err := f.comments.CreateComment(ctx, admin, project.ID, dto.CommentRequest{Content: "internal"})
	require.NoError(t, err)
	_, err = f.comments.ToggleVisibility(ctx, hidden.ID)
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, viewer, project.ID, dto.CommentRequest{Content: "looks good"})
	require.NoError(t, err)

	dashboard, err := f.dashboard.GetDashboard(ctx, viewer, project.Slug)
	require.NoError(t, err)
	assert.Equal(t, project.ID, dashboard.Project.ID)
	assert.Equal(t, 100, dashboard.Project.Progress)
	assert.Len(t, dashboard.Roadmap, 1)
	assert.Len(t, dashboard.Sprints, 1)
	require.Len(t, dashboard.Reports, 1)
	assert.Equal(t, published.ID, dashboard.Reports[0].ID)
	require.Len(t, dashboard.Comments, 1)
	assert.Equal(t, "looks good", dashboard.Comments[0].Content)
}

func TestDashboardHidesProjectsWithoutActiveAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Secret")
	client := f.client(t, "c@example.com")
	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}

	_, err := f.dashboard.GetDashboard(ctx, viewer, project.Slug)
	assert.True(t, errors.Is(err, ErrNotFound))

	access, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)
	projects, err := f.dashboard.ListProjects(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.ID, projects[0].ID)

	_, err = f.access.Toggle(ctx, access.ID)
	require.NoError(t, err)
	projects, err = f.dashboard.ListProjects(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = f.dashboard.GetDashboard(ctx, viewer, project.Slug)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetPublishedReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Reports")
	other := f.project(t, "Other")
	client := f.client(t, "c@example.com")
	_, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)
	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}

	draft := f.report(t, project.ID, "Draft", false)
	published := f.report(t, project.ID, "Final", true)
	foreign := f.report(t, other.ID, "Foreign", true)

	report, err := f.dashboard.GetPublishedReport(ctx, viewer, project.Slug, published.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", report.Title)

	_, err = f.dashboard.GetPublishedReport(ctx, viewer, project.Slug, draft.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.dashboard.GetPublishedReport(ctx, viewer, project.Slug, foreign.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
