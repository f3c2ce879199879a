package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
	"github.com/donely-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// temporaryPasswordLength is the length of generated client passwords
const temporaryPasswordLength = 16

// ClientService handles administration of client profiles
type ClientService struct {
	profileRepo ProfileStore
	accessRepo  AccessStore
}

// NewClientService creates a new client service instance
func NewClientService(profiles ProfileStore, access AccessStore) *ClientService {
	return &ClientService{
		profileRepo: profiles,
		accessRepo:  access,
	}
}

// ListClients retrieves client profiles with pagination, search and sorting
func (s *ClientService) ListClients(ctx context.Context, filter dto.ListFilter) (dto.ClientListResponse, error) {
	filter = normalizeFilter(filter, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"email":      true,
	})

	clients, total, err := s.profileRepo.ListClients(ctx, filter)
	if err != nil {
		return dto.ClientListResponse{}, err
	}

	return dto.ClientListResponse{
		Clients:    clients,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: utils.TotalPages(total, filter.PageSize),
	}, nil
}

// GetClient retrieves a client profile; admin profiles are not clients
func (s *ClientService) GetClient(ctx context.Context, id string) (models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return models.Profile{}, notFound("client", err)
	}
	if profile.Role != models.RoleClient {
		return models.Profile{}, fmt.Errorf("client %w", ErrNotFound)
	}
	return profile, nil
}

// CreateClient registers a client; a temporary password is generated when none is supplied
func (s *ClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (dto.CreateClientResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.checkIdentityFree(ctx, email, req.Username, ""); err != nil {
		return dto.CreateClientResponse{}, err
	}

	password := req.Password
	generated := ""
	if password == "" {
		generated = utils.GenerateSecurePassword(temporaryPasswordLength)
		password = generated
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.CreateClientResponse{}, err
	}

	client := models.Profile{
		Email:    email,
		Password: string(hashedPassword),
		Username: normalizeUsername(req.Username),
		Name:     strings.TrimSpace(req.Name),
		Role:     models.RoleClient,
		Active:   true,
	}
	if err := s.profileRepo.Create(ctx, &client); err != nil {
		return dto.CreateClientResponse{}, err
	}

	return dto.CreateClientResponse{Client: client, TemporaryPassword: generated}, nil
}

// UpdateClient changes the identity fields of a client
func (s *ClientService) UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (models.Profile, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}

	email := normalizeEmail(req.Email)
	if err := s.checkIdentityFree(ctx, email, req.Username, client.ID); err != nil {
		return models.Profile{}, err
	}

	client.Email = email
	client.Name = strings.TrimSpace(req.Name)
	client.Username = normalizeUsername(req.Username)
	if err := s.profileRepo.Update(ctx, &client); err != nil {
		return models.Profile{}, err
	}
	return client, nil
}

// ToggleActive flips the active flag of a client and nothing else
func (s *ClientService) ToggleActive(ctx context.Context, id string) (models.Profile, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	client.Active = !client.Active
	if err := s.profileRepo.SetActive(ctx, client.ID, client.Active); err != nil {
		return models.Profile{}, err
	}
	return client, nil
}

// DeleteClient removes a client together with its access grants and comments
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return err
	}
	return s.profileRepo.Delete(ctx, client.ID)
}

// ListClientAccess retrieves the projects a client was granted
func (s *ClientService) ListClientAccess(ctx context.Context, id string) ([]models.ClientProjectAccess, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.accessRepo.ListByClient(ctx, client.ID)
}

func (s *ClientService) checkIdentityFree(ctx context.Context, email string, username *string, excludeID string) error {
	taken, err := s.profileRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflictError("email already registered")
	}

	if u := normalizeUsername(username); u != nil {
		taken, err := s.profileRepo.ExistsByUsername(ctx, *u, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return conflictError("username already taken")
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeUsername(username *string) *string {
	if username == nil {
		return nil
	}
	u := strings.TrimSpace(*username)
	if u == "" {
		return nil
	}
	return &u
}

// CreateAdmin registers an administrator profile
func (s *ClientService) CreateAdmin(ctx context.Context, email, name, password string) (models.Profile, error) {
	if len(password) < 8 {
		return models.Profile{}, validationError("password must be at least 8 characters")
	}
	email = normalizeEmail(email)
	if email == "" {
		return models.Profile{}, validationError("email is required")
	}
	if err := s.checkIdentityFree(ctx, email, nil, ""); err != nil {
		return models.Profile{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, err
	}

	admin := models.Profile{
		Email:    email,
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(name),
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := s.profileRepo.Create(ctx, &admin); err != nil {
		return models.Profile{}, err
	}
	return admin, nil
}
