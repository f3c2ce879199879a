package memstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// ProjectStore is the in-memory services.ProjectStore
type ProjectStore struct{ s *Store }

func (p *ProjectStore) FindWithPagination(_ context.Context, filter dto.ListFilter) ([]models.Project, int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var projects []models.Project
	for _, project := range p.s.projects {
		if filter.Search != "" && !containsFold(project.Name, filter.Search) &&
			!containsFold(project.Slug, filter.Search) && !containsFold(project.ClientName, filter.Search) {
			continue
		}
		projects = append(projects, project)
	}
	sortByOrder(p.s, projects, func(pr models.Project) string { return pr.ID })
	total := int64(len(projects))
	return paginate(projects, filter), total, nil
}

func (p *ProjectStore) FindByID(_ context.Context, id string) (models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	project, ok := p.s.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (p *ProjectStore) FindBySlug(_ context.Context, slug string) (models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, project := range p.s.projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return models.Project{}, gorm.ErrRecordNotFound
}

func (p *ProjectStore) ExistsBySlug(_ context.Context, slug, excludeID string) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, project := range p.s.projects {
		if project.Slug == slug && project.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (p *ProjectStore) Create(_ context.Context, project *models.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	p.s.newID(&project.ID)
	project.CreatedAt = p.s.now()
	project.UpdatedAt = project.CreatedAt
	p.s.projects[project.ID] = *project
	return nil
}

func (p *ProjectStore) Update(_ context.Context, project *models.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	if _, ok := p.s.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	project.UpdatedAt = p.s.now()
	p.s.projects[project.ID] = *project
	return nil
}

func (p *ProjectStore) UpdateProgress(_ context.Context, id string, progress int) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	project, ok := p.s.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	project.Progress = progress
	p.s.projects[id] = project
	return nil
}

// Delete removes the project and every row that hangs off it
func (p *ProjectStore) Delete(_ context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	if _, ok := p.s.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for key, access := range p.s.access {
		if access.ProjectID == id {
			delete(p.s.access, key)
		}
	}
	for key, comment := range p.s.comments {
		if comment.ProjectID == id {
			delete(p.s.comments, key)
		}
	}
	for key, evidence := range p.s.evidences {
		if evidence.ProjectID == id {
			delete(p.s.evidences, key)
		}
	}
	for key, report := range p.s.reports {
		if report.ProjectID == id {
			delete(p.s.reports, key)
		}
	}
	for key, sprint := range p.s.sprints {
		if sprint.ProjectID == id {
			p.s.deleteSprintScope(key)
			delete(p.s.sprints, key)
		}
	}
	for key, item := range p.s.roadmap {
		if item.ProjectID == id {
			delete(p.s.roadmap, key)
		}
	}
	delete(p.s.projects, id)
	return nil
}

// AccessStore is the in-memory services.AccessStore
type AccessStore struct{ s *Store }

func (a *AccessStore) FindByID(_ context.Context, id string) (models.ClientProjectAccess, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	access, ok := a.s.access[id]
	if !ok {
		return models.ClientProjectAccess{}, gorm.ErrRecordNotFound
	}
	return access, nil
}

func (a *AccessStore) FindByClientAndProject(_ context.Context, clientID, projectID string) (models.ClientProjectAccess, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, access := range a.s.access {
		if access.ClientID == clientID && access.ProjectID == projectID {
			return access, nil
		}
	}
	return models.ClientProjectAccess{}, gorm.ErrRecordNotFound
}

func (a *AccessStore) ListByProject(_ context.Context, projectID string) ([]models.ClientProjectAccess, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	grants := []models.ClientProjectAccess{}
	for _, access := range a.s.access {
		if access.ProjectID != projectID {
			continue
		}
		if client, ok := a.s.profiles[access.ClientID]; ok {
			access.Client = &client
		}
		grants = append(grants, access)
	}
	sortByOrder(a.s, grants, func(g models.ClientProjectAccess) string { return g.ID })
	return grants, nil
}

func (a *AccessStore) ListByClient(_ context.Context, clientID string) ([]models.ClientProjectAccess, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	grants := []models.ClientProjectAccess{}
	for _, access := range a.s.access {
		if access.ClientID != clientID {
			continue
		}
		if project, ok := a.s.projects[access.ProjectID]; ok {
			access.Project = &project
		}
		grants = append(grants, access)
	}
	sortByOrder(a.s, grants, func(g models.ClientProjectAccess) string { return g.ID })
	return grants, nil
}

func (a *AccessStore) Create(_ context.Context, access *models.ClientProjectAccess) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.s.Fail != nil {
		return a.s.Fail
	}
	a.s.newID(&access.ID)
	access.CreatedAt = a.s.now()
	access.UpdatedAt = access.CreatedAt
	stored := *access
	stored.Client, stored.Project = nil, nil
	a.s.access[access.ID] = stored
	return nil
}

func (a *AccessStore) SetActive(_ context.Context, id string, active bool) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.s.Fail != nil {
		return a.s.Fail
	}
	access, ok := a.s.access[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	access.Active = active
	a.s.access[id] = access
	return nil
}

func (a *AccessStore) TouchLastLogin(_ context.Context, clientID string, at time.Time) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.s.Fail != nil {
		return a.s.Fail
	}
	for key, access := range a.s.access {
		if access.ClientID == clientID {
			stamp := at
			access.LastLoginAt = &stamp
			a.s.access[key] = access
		}
	}
	return nil
}

func (a *AccessStore) Delete(_ context.Context, id string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.s.Fail != nil {
		return a.s.Fail
	}
	if _, ok := a.s.access[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(a.s.access, id)
	return nil
}
