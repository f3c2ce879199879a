package services

import (
	"context"
	"time"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// The store interfaces below are implemented by package repositories.
// Missing rows are reported as gorm.ErrRecordNotFound.

// ProfileStore persists admin and client profiles
type ProfileStore interface {
	FindByID(ctx context.Context, id string) (models.Profile, error)
	FindByEmail(ctx context.Context, email string) (models.Profile, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error)
	ListClients(ctx context.Context, filter dto.ListFilter) ([]models.Profile, int64, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// ProjectStore persists projects
type ProjectStore interface {
	FindWithPagination(ctx context.Context, filter dto.ListFilter) ([]models.Project, int64, error)
	FindByID(ctx context.Context, id string) (models.Project, error)
	FindBySlug(ctx context.Context, slug string) (models.Project, error)
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	UpdateProgress(ctx context.Context, id string, progress int) error
	Delete(ctx context.Context, id string) error
}

// AccessStore persists client-project access grants
type AccessStore interface {
	FindByID(ctx context.Context, id string) (models.ClientProjectAccess, error)
	FindByClientAndProject(ctx context.Context, clientID, projectID string) (models.ClientProjectAccess, error)
	ListByProject(ctx context.Context, projectID string) ([]models.ClientProjectAccess, error)
	ListByClient(ctx context.Context, clientID string) ([]models.ClientProjectAccess, error)
	Create(ctx context.Context, access *models.ClientProjectAccess) error
	SetActive(ctx context.Context, id string, active bool) error
	TouchLastLogin(ctx context.Context, clientID string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// RoadmapStore persists roadmap items
type RoadmapStore interface {
	ListByProject(ctx context.Context, projectID string) ([]models.RoadmapItem, error)
	FindByID(ctx context.Context, id string) (models.RoadmapItem, error)
	MaxOrderIndex(ctx context.Context, projectID string) (int, error)
	CountProgress(ctx context.Context, projectID string) (total int64, done int64, err error)
	Create(ctx context.Context, item *models.RoadmapItem) error
	Update(ctx context.Context, item *models.RoadmapItem) error
	Swap(ctx context.Context, first, second models.RoadmapItem) error
	Delete(ctx context.Context, id string) error
}

// SprintStore persists sprints with their tasks and deliveries
type SprintStore interface {
	ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error)
	FindByID(ctx context.Context, id string) (models.Sprint, error)
	MaxSprintNumber(ctx context.Context, projectID string) (int, error)
	Create(ctx context.Context, sprint *models.Sprint) error
	Update(ctx context.Context, sprint *models.Sprint) error
	Swap(ctx context.Context, first, second models.Sprint) error
	Delete(ctx context.Context, id string) error

	FindTask(ctx context.Context, id string) (models.SprintTask, error)
	MaxTaskOrder(ctx context.Context, sprintID string) (int, error)
	CreateTask(ctx context.Context, task *models.SprintTask) error
	UpdateTask(ctx context.Context, task *models.SprintTask) error
	DeleteTask(ctx context.Context, id string) error

	FindDelivery(ctx context.Context, id string) (models.SprintDelivery, error)
	CreateDelivery(ctx context.Context, delivery *models.SprintDelivery) error
	UpdateDelivery(ctx context.Context, delivery *models.SprintDelivery) error
	DeleteDelivery(ctx context.Context, id string) error
}

// ReportStore persists reports; reads attach their evidences
type ReportStore interface {
	ListByProject(ctx context.Context, projectID string, publishedOnly bool) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	SetPublished(ctx context.Context, id string, published bool, at *time.Time) error
	Delete(ctx context.Context, id string) error
}

// EvidenceStore persists evidence metadata
type EvidenceStore interface {
	ListByReport(ctx context.Context, reportID string) ([]models.Evidence, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Evidence, error)
	FindByID(ctx context.Context, id string) (models.Evidence, error)
	Create(ctx context.Context, evidence *models.Evidence) error
	Delete(ctx context.Context, id string) error
}

// CommentStore persists comments; reads attach the author
type CommentStore interface {
	ListByProject(ctx context.Context, projectID string, visibleOnly bool) ([]models.Comment, error)
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	SetVisible(ctx context.Context, id string, visible bool) error
	Delete(ctx context.Context, id string) error
}

// OverviewSource loads the flat rows behind the client-centered overview
type OverviewSource interface {
	LoadOverview(ctx context.Context) (dto.OverviewData, error)
}
