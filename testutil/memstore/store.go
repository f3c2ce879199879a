// Package memstore is an in-memory implementation of the service stores for tests.
// Missing rows are reported as gorm.ErrRecordNotFound, like the gorm repositories.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// Store holds every table in maps guarded by one mutex
type Store struct {
	mu  sync.Mutex
	seq int64
	now func() time.Time

	profiles   map[string]models.Profile
	projects   map[string]models.Project
	access     map[string]models.ClientProjectAccess
	roadmap    map[string]models.RoadmapItem
	sprints    map[string]models.Sprint
	tasks      map[string]models.SprintTask
	deliveries map[string]models.SprintDelivery
	reports    map[string]models.Report
	evidences  map[string]models.Evidence
	comments   map[string]models.Comment

	// order remembers insertion order so lists are deterministic
	order map[string]int64

	// Fail, when set, is returned by every write; used to exercise error paths
	Fail error
}

// New creates an empty store
func New() *Store {
	return &Store{
		now:        time.Now,
		profiles:   map[string]models.Profile{},
		projects:   map[string]models.Project{},
		access:     map[string]models.ClientProjectAccess{},
		roadmap:    map[string]models.RoadmapItem{},
		sprints:    map[string]models.Sprint{},
		tasks:      map[string]models.SprintTask{},
		deliveries: map[string]models.SprintDelivery{},
		reports:    map[string]models.Report{},
		evidences:  map[string]models.Evidence{},
		comments:   map[string]models.Comment{},
		order:      map[string]int64{},
	}
}

// Profiles returns the profile store view
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{s} }

// Projects returns the project store view
func (s *Store) Projects() *ProjectStore { return &ProjectStore{s} }

// Access returns the access store view
func (s *Store) Access() *AccessStore { return &AccessStore{s} }

// Roadmap returns the roadmap store view
func (s *Store) Roadmap() *RoadmapStore { return &RoadmapStore{s} }

// Sprints returns the sprint store view
func (s *Store) Sprints() *SprintStore { return &SprintStore{s} }

// Reports returns the report store view
func (s *Store) Reports() *ReportStore { return &ReportStore{s} }

// Evidences returns the evidence store view
func (s *Store) Evidences() *EvidenceStore { return &EvidenceStore{s} }

// Comments returns the comment store view
func (s *Store) Comments() *CommentStore { return &CommentStore{s} }

// Overview returns the overview source view
func (s *Store) Overview() *OverviewSource { return &OverviewSource{s} }

// newID assigns an id when the caller did not pre-generate one. Callers hold mu.
func (s *Store) newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
	s.seq++
	s.order[*id] = s.seq
}

func sortByOrder[T any](s *Store, items []T, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return s.order[id(items[i])] < s.order[id(items[j])]
	})
}

func paginate[T any](items []T, filter dto.ListFilter) []T {
	if filter.PageSize <= 0 {
		return items
	}
	start := (filter.Page - 1) * filter.PageSize
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ProfileStore is the in-memory services.ProfileStore
type ProfileStore struct{ s *Store }

func (p *ProfileStore) FindByID(_ context.Context, id string) (models.Profile, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	profile, ok := p.s.profiles[id]
	if !ok {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (p *ProfileStore) FindByEmail(_ context.Context, email string) (models.Profile, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, profile := range p.s.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return models.Profile{}, gorm.ErrRecordNotFound
}

func (p *ProfileStore) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, profile := range p.s.profiles {
		if profile.Email == email && profile.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (p *ProfileStore) ExistsByUsername(_ context.Context, username, excludeID string) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, profile := range p.s.profiles {
		if profile.Username != nil && *profile.Username == username && profile.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (p *ProfileStore) ListClients(_ context.Context, filter dto.ListFilter) ([]models.Profile, int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var clients []models.Profile
	for _, profile := range p.s.profiles {
		if profile.Role != models.RoleClient {
			continue
		}
		if filter.Search != "" {
			username := ""
			if profile.Username != nil {
				username = *profile.Username
			}
			if !containsFold(profile.Name, filter.Search) && !containsFold(profile.Email, filter.Search) && !containsFold(username, filter.Search) {
				continue
			}
		}
		clients = append(clients, profile)
	}
	sortByOrder(p.s, clients, func(c models.Profile) string { return c.ID })
	total := int64(len(clients))
	return paginate(clients, filter), total, nil
}

func (p *ProfileStore) Create(_ context.Context, profile *models.Profile) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	p.s.newID(&profile.ID)
	profile.CreatedAt = p.s.now()
	profile.UpdatedAt = profile.CreatedAt
	p.s.profiles[profile.ID] = *profile
	return nil
}

func (p *ProfileStore) Update(_ context.Context, profile *models.Profile) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	if _, ok := p.s.profiles[profile.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	profile.UpdatedAt = p.s.now()
	p.s.profiles[profile.ID] = *profile
	return nil
}

func (p *ProfileStore) UpdatePassword(_ context.Context, id, hash string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	profile, ok := p.s.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.Password = hash
	p.s.profiles[id] = profile
	return nil
}

func (p *ProfileStore) SetActive(_ context.Context, id string, active bool) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	profile, ok := p.s.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.Active = active
	p.s.profiles[id] = profile
	return nil
}

func (p *ProfileStore) Delete(_ context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Fail != nil {
		return p.s.Fail
	}
	if _, ok := p.s.profiles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for key, access := range p.s.access {
		if access.ClientID == id {
			delete(p.s.access, key)
		}
	}
	for key, comment := range p.s.comments {
		if comment.AuthorID == id {
			delete(p.s.comments, key)
		}
	}
	delete(p.s.profiles, id)
	return nil
}
