package memstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// ReportStore is the in-memory services.ReportStore
type ReportStore struct{ s *Store }

// withEvidences attaches a report's evidences. Callers hold mu.
func (s *Store) withEvidences(report models.Report) models.Report {
	report.Evidences = []models.Evidence{}
	for _, evidence := range s.evidences {
		if evidence.ReportID == report.ID {
			report.Evidences = append(report.Evidences, evidence)
		}
	}
	sortByOrder(s, report.Evidences, func(e models.Evidence) string { return e.ID })
	return report
}

func (r *ReportStore) ListByProject(_ context.Context, projectID string, publishedOnly bool) ([]models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reports := []models.Report{}
	for _, report := range r.s.reports {
		if report.ProjectID != projectID || (publishedOnly && !report.Published) {
			continue
		}
		reports = append(reports, r.s.withEvidences(report))
	}
	sortByOrder(r.s, reports, func(rep models.Report) string { return rep.ID })
	return reports, nil
}

func (r *ReportStore) FindByID(_ context.Context, id string) (models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[id]
	if !ok {
		return models.Report{}, gorm.ErrRecordNotFound
	}
	return r.s.withEvidences(report), nil
}

func (r *ReportStore) Create(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	r.s.newID(&report.ID)
	report.CreatedAt = r.s.now()
	report.UpdatedAt = report.CreatedAt
	stored := *report
	stored.Evidences = nil
	r.s.reports[report.ID] = stored
	return nil
}

func (r *ReportStore) Update(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.reports[report.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	report.UpdatedAt = r.s.now()
	stored := *report
	stored.Evidences = nil
	r.s.reports[report.ID] = stored
	return nil
}

func (r *ReportStore) SetPublished(_ context.Context, id string, published bool, at *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	report, ok := r.s.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.Published = published
	report.PublishedAt = at
	r.s.reports[id] = report
	return nil
}

// Delete removes the report with its evidence rows and comments
func (r *ReportStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.reports[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for key, evidence := range r.s.evidences {
		if evidence.ReportID == id {
			delete(r.s.evidences, key)
		}
	}
	for key, comment := range r.s.comments {
		if comment.ReportID != nil && *comment.ReportID == id {
			delete(r.s.comments, key)
		}
	}
	delete(r.s.reports, id)
	return nil
}

// EvidenceStore is the in-memory services.EvidenceStore
type EvidenceStore struct{ s *Store }

func (e *EvidenceStore) list(match func(models.Evidence) bool) []models.Evidence {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	evidences := []models.Evidence{}
	for _, evidence := range e.s.evidences {
		if match(evidence) {
			evidences = append(evidences, evidence)
		}
	}
	sortByOrder(e.s, evidences, func(ev models.Evidence) string { return ev.ID })
	return evidences
}

func (e *EvidenceStore) ListByReport(_ context.Context, reportID string) ([]models.Evidence, error) {
	return e.list(func(ev models.Evidence) bool { return ev.ReportID == reportID }), nil
}

func (e *EvidenceStore) ListByProject(_ context.Context, projectID string) ([]models.Evidence, error) {
	return e.list(func(ev models.Evidence) bool { return ev.ProjectID == projectID }), nil
}

func (e *EvidenceStore) FindByID(_ context.Context, id string) (models.Evidence, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	evidence, ok := e.s.evidences[id]
	if !ok {
		return models.Evidence{}, gorm.ErrRecordNotFound
	}
	return evidence, nil
}

func (e *EvidenceStore) Create(_ context.Context, evidence *models.Evidence) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.s.Fail != nil {
		return e.s.Fail
	}
	e.s.newID(&evidence.ID)
	evidence.CreatedAt = e.s.now()
	e.s.evidences[evidence.ID] = *evidence
	return nil
}

func (e *EvidenceStore) Delete(_ context.Context, id string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.s.Fail != nil {
		return e.s.Fail
	}
	if _, ok := e.s.evidences[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(e.s.evidences, id)
	return nil
}

// CommentStore is the in-memory services.CommentStore
type CommentStore struct{ s *Store }

func (c *CommentStore) ListByProject(_ context.Context, projectID string, visibleOnly bool) ([]models.Comment, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	comments := []models.Comment{}
	for _, comment := range c.s.comments {
		if comment.ProjectID != projectID || (visibleOnly && !comment.Visible) {
			continue
		}
		if author, ok := c.s.profiles[comment.AuthorID]; ok {
			comment.Author = &author
		}
		comments = append(comments, comment)
	}
	sortByOrder(c.s, comments, func(cm models.Comment) string { return cm.ID })
	return comments, nil
}

func (c *CommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	comment, ok := c.s.comments[id]
	if !ok {
		return models.Comment{}, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (c *CommentStore) Create(_ context.Context, comment *models.Comment) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.Fail != nil {
		return c.s.Fail
	}
	c.s.newID(&comment.ID)
	comment.CreatedAt = c.s.now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	stored.Author = nil
	c.s.comments[comment.ID] = stored
	return nil
}

func (c *CommentStore) SetVisible(_ context.Context, id string, visible bool) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.Fail != nil {
		return c.s.Fail
	}
	comment, ok := c.s.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	comment.Visible = visible
	c.s.comments[id] = comment
	return nil
}

func (c *CommentStore) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.Fail != nil {
		return c.s.Fail
	}
	if _, ok := c.s.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(c.s.comments, id)
	return nil
}

// OverviewSource is the in-memory services.OverviewSource
type OverviewSource struct{ s *Store }

func (o *OverviewSource) LoadOverview(_ context.Context) (dto.OverviewData, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	var data dto.OverviewData
	for _, profile := range o.s.profiles {
		if profile.Role == models.RoleClient {
			data.Clients = append(data.Clients, profile)
		}
	}
	for _, access := range o.s.access {
		data.Access = append(data.Access, access)
	}
	for _, project := range o.s.projects {
		data.Projects = append(data.Projects, project)
	}
	for _, item := range o.s.roadmap {
		data.Roadmap = append(data.Roadmap, item)
	}
	for _, sprint := range o.s.sprints {
		data.Sprints = append(data.Sprints, sprint)
	}
	for _, report := range o.s.reports {
		data.Reports = append(data.Reports, report)
	}
	for _, evidence := range o.s.evidences {
		data.Evidences = append(data.Evidences, evidence)
	}
	sortByOrder(o.s, data.Clients, func(p models.Profile) string { return p.ID })
	sortByOrder(o.s, data.Access, func(a models.ClientProjectAccess) string { return a.ID })
	sortByOrder(o.s, data.Projects, func(p models.Project) string { return p.ID })
	sortByOrder(o.s, data.Reports, func(r models.Report) string { return r.ID })
	sortByOrder(o.s, data.Evidences, func(e models.Evidence) string { return e.ID })
	return data, nil
}
