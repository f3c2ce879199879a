package services

import (
	"context"
	"errors"

	"github.com/donely-api/models"
	"gorm.io/gorm"
)

// AccessService manages which clients can see which projects
type AccessService struct {
	accessRepo  AccessStore
	projectRepo ProjectStore
	profileRepo ProfileStore
}

// NewAccessService creates a new access service instance
func NewAccessService(access AccessStore, projects ProjectStore, profiles ProfileStore) *AccessService {
	return &AccessService{
		accessRepo:  access,
		projectRepo: projects,
		profileRepo: profiles,
	}
}

// ListByProject retrieves every access grant of a project with its client
func (s *AccessService) ListByProject(ctx context.Context, projectID string) ([]models.ClientProjectAccess, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}
	return s.accessRepo.ListByProject(ctx, projectID)
}

// Grant gives a client access to a project; both must exist
func (s *AccessService) Grant(ctx context.Context, projectID, clientID string) (models.ClientProjectAccess, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return models.ClientProjectAccess{}, notFound("project", err)
	}

	client, err := s.profileRepo.FindByID(ctx, clientID)
	if err != nil {
		return models.ClientProjectAccess{}, notFound("client", err)
	}
	if client.Role != models.RoleClient {
		return models.ClientProjectAccess{}, validationError("only client profiles can be granted project access")
	}

	_, err = s.accessRepo.FindByClientAndProject(ctx, clientID, projectID)
	if err == nil {
		return models.ClientProjectAccess{}, conflictError("client already has access to this project")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ClientProjectAccess{}, err
	}

	access := models.ClientProjectAccess{
		ClientID:  clientID,
		ProjectID: projectID,
		Active:    true,
	}
	if err := s.accessRepo.Create(ctx, &access); err != nil {
		return models.ClientProjectAccess{}, err
	}
	return access, nil
}

// Toggle flips the active flag of an access grant and nothing else
func (s *AccessService) Toggle(ctx context.Context, accessID string) (models.ClientProjectAccess, error) {
	access, err := s.accessRepo.FindByID(ctx, accessID)
	if err != nil {
		return models.ClientProjectAccess{}, notFound("access", err)
	}
	access.Active = !access.Active
	if err := s.accessRepo.SetActive(ctx, access.ID, access.Active); err != nil {
		return models.ClientProjectAccess{}, err
	}
	return access, nil
}

// Revoke removes an access grant
func (s *AccessService) Revoke(ctx context.Context, accessID string) error {
	if _, err := s.accessRepo.FindByID(ctx, accessID); err != nil {
		return notFound("access", err)
	}
	return s.accessRepo.Delete(ctx, accessID)
}

// CanView reports whether viewer may read the project's client-facing data
func (s *AccessService) CanView(ctx context.Context, viewer Viewer, projectID string) (bool, error) {
	return canView(ctx, s.accessRepo, viewer, projectID)
}

func canView(ctx context.Context, accessRepo AccessStore, viewer Viewer, projectID string) (bool, error) {
	if viewer.IsAdmin() {
		return true, nil
	}
	access, err := accessRepo.FindByClientAndProject(ctx, viewer.UserID, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return access.Active, nil
}
