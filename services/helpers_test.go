package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/storage"
	"github.com/donely-api/models"
	"github.com/donely-api/testutil/memstore"
)

var (
	_ ProfileStore   = (*memstore.ProfileStore)(nil)
	_ ProjectStore   = (*memstore.ProjectStore)(nil)
	_ AccessStore    = (*memstore.AccessStore)(nil)
	_ RoadmapStore   = (*memstore.RoadmapStore)(nil)
	_ SprintStore    = (*memstore.SprintStore)(nil)
	_ ReportStore    = (*memstore.ReportStore)(nil)
	_ EvidenceStore  = (*memstore.EvidenceStore)(nil)
	_ CommentStore   = (*memstore.CommentStore)(nil)
	_ OverviewSource = (*memstore.OverviewSource)(nil)
)

type fixture struct {
	store   *memstore.Store
	storage *storage.DiskStorage

	projects  *ProjectService
	access    *AccessService
	clients   *ClientService
	roadmap   *RoadmapService
	sprints   *SprintService
	reports   *ReportService
	evidences *EvidenceService
	comments  *CommentService
	dashboard *DashboardService
	overview  *OverviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	disk, err := storage.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	return &fixture{
		store:     st,
		storage:   disk,
		projects:  NewProjectService(st.Projects(), st.Roadmap(), st.Evidences(), disk),
		access:    NewAccessService(st.Access(), st.Projects(), st.Profiles()),
		clients:   NewClientService(st.Profiles(), st.Access()),
		roadmap:   NewRoadmapService(st.Roadmap(), st.Projects()),
		sprints:   NewSprintService(st.Sprints(), st.Projects(), st.Roadmap()),
		reports:   NewReportService(st.Reports(), st.Projects(), st.Sprints(), st.Evidences(), disk),
		evidences: NewEvidenceService(st.Evidences(), st.Reports(), st.Sprints(), st.Access(), disk, "http://api.test/"),
		comments:  NewCommentService(st.Comments(), st.Projects(), st.Reports(), st.Access()),
		dashboard: NewDashboardService(st.Projects(), st.Access(), st.Roadmap(), st.Sprints(), st.Reports(), st.Comments()),
		overview:  NewOverviewService(st.Overview()),
	}
}

func (f *fixture) project(t *testing.T, name string) models.Project {
	t.Helper()
	project, err := f.projects.CreateProject(context.Background(), dto.ProjectRequest{Name: name})
	require.NoError(t, err)
	return project
}

func (f *fixture) client(t *testing.T, email string) models.Profile {
	t.Helper()
	resp, err := f.clients.CreateClient(context.Background(), dto.CreateClientRequest{Email: email, Name: "Client " + email})
	require.NoError(t, err)
	return resp.Client
}

func (f *fixture) item(t *testing.T, projectID, title string, status models.WorkStatus) models.RoadmapItem {
	t.Helper()
	item, err := f.roadmap.CreateItem(context.Background(), projectID, dto.RoadmapItemRequest{Title: title, Status: status})
	require.NoError(t, err)
	return item
}

func (f *fixture) report(t *testing.T, projectID, title string, published bool) models.Report {
	t.Helper()
	ctx := context.Background()
	report, err := f.reports.CreateReport(ctx, projectID, dto.ReportRequest{Title: title, Content: "# " + title})
	require.NoError(t, err)
	if published {
		report, err = f.reports.SetPublished(ctx, report.ID, true)
		require.NoError(t, err)
	}
	return report
}
