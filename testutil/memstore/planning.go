package memstore

import (
	"context"
	"sort"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/donely-api/models"
)

// RoadmapStore is the in-memory services.RoadmapStore
type RoadmapStore struct{ s *Store }

func (r *RoadmapStore) ListByProject(_ context.Context, projectID string) ([]models.RoadmapItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := []models.RoadmapItem{}
	for _, item := range r.s.roadmap {
		if item.ProjectID == projectID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
	return items, nil
}

func (r *RoadmapStore) FindByID(_ context.Context, id string) (models.RoadmapItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.roadmap[id]
	if !ok {
		return models.RoadmapItem{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *RoadmapStore) MaxOrderIndex(_ context.Context, projectID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxIndex := 0
	for _, item := range r.s.roadmap {
		if item.ProjectID == projectID && item.OrderIndex > maxIndex {
			maxIndex = item.OrderIndex
		}
	}
	return maxIndex, nil
}

func (r *RoadmapStore) CountProgress(_ context.Context, projectID string) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total, done int64
	for _, item := range r.s.roadmap {
		if item.ProjectID != projectID {
			continue
		}
		total++
		if item.Status == models.WorkStatusDone {
			done++
		}
	}
	return total, done, nil
}

func (r *RoadmapStore) Create(_ context.Context, item *models.RoadmapItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	r.s.newID(&item.ID)
	item.CreatedAt = r.s.now()
	item.UpdatedAt = item.CreatedAt
	r.s.roadmap[item.ID] = *item
	return nil
}

func (r *RoadmapStore) Update(_ context.Context, item *models.RoadmapItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.roadmap[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	item.UpdatedAt = r.s.now()
	r.s.roadmap[item.ID] = *item
	return nil
}

func (r *RoadmapStore) Swap(_ context.Context, first, second models.RoadmapItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	a, okA := r.s.roadmap[first.ID]
	b, okB := r.s.roadmap[second.ID]
	if !okA || !okB {
		return gorm.ErrRecordNotFound
	}
	a.OrderIndex, b.OrderIndex = b.OrderIndex, a.OrderIndex
	r.s.roadmap[a.ID] = a
	r.s.roadmap[b.ID] = b
	return nil
}

// Delete removes the item, unlinks sprints and drops it from sibling dependencies
func (r *RoadmapStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Fail != nil {
		return r.s.Fail
	}
	if _, ok := r.s.roadmap[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for key, sprint := range r.s.sprints {
		if sprint.RoadmapItemID != nil && *sprint.RoadmapItemID == id {
			sprint.RoadmapItemID = nil
			r.s.sprints[key] = sprint
		}
	}
	for key, item := range r.s.roadmap {
		kept := pq.StringArray{}
		for _, dep := range item.Dependencies {
			if dep != id {
				kept = append(kept, dep)
			}
		}
		if len(kept) != len(item.Dependencies) {
			item.Dependencies = kept
			r.s.roadmap[key] = item
		}
	}
	delete(r.s.roadmap, id)
	return nil
}

// SprintStore is the in-memory services.SprintStore
type SprintStore struct{ s *Store }

// withScope attaches tasks and deliveries. Callers hold mu.
func (s *Store) withScope(sprint models.Sprint) models.Sprint {
	sprint.Tasks = []models.SprintTask{}
	for _, task := range s.tasks {
		if task.SprintID == sprint.ID {
			sprint.Tasks = append(sprint.Tasks, task)
		}
	}
	sort.SliceStable(sprint.Tasks, func(i, j int) bool { return sprint.Tasks[i].OrderIndex < sprint.Tasks[j].OrderIndex })

	sprint.Deliveries = []models.SprintDelivery{}
	for _, delivery := range s.deliveries {
		if delivery.SprintID == sprint.ID {
			sprint.Deliveries = append(sprint.Deliveries, delivery)
		}
	}
	sortByOrder(s, sprint.Deliveries, func(d models.SprintDelivery) string { return d.ID })
	return sprint
}

// deleteSprintScope removes tasks and deliveries and unlinks reports. Callers hold mu.
func (s *Store) deleteSprintScope(sprintID string) {
	for key, task := range s.tasks {
		if task.SprintID == sprintID {
			s.unlinkTask(key)
			delete(s.tasks, key)
		}
	}
	for key, delivery := range s.deliveries {
		if delivery.SprintID == sprintID {
			delete(s.deliveries, key)
		}
	}
	for key, report := range s.reports {
		if report.SprintID != nil && *report.SprintID == sprintID {
			report.SprintID = nil
			s.reports[key] = report
		}
	}
}

// unlinkTask clears evidence references to a task. Callers hold mu.
func (s *Store) unlinkTask(taskID string) {
	for key, evidence := range s.evidences {
		if evidence.SprintTaskID != nil && *evidence.SprintTaskID == taskID {
			evidence.SprintTaskID = nil
			s.evidences[key] = evidence
		}
	}
}

func (sp *SprintStore) ListByProject(_ context.Context, projectID string) ([]models.Sprint, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	sprints := []models.Sprint{}
	for _, sprint := range sp.s.sprints {
		if sprint.ProjectID == projectID {
			sprints = append(sprints, sp.s.withScope(sprint))
		}
	}
	sort.SliceStable(sprints, func(i, j int) bool { return sprints[i].SprintNumber < sprints[j].SprintNumber })
	return sprints, nil
}

func (sp *SprintStore) FindByID(_ context.Context, id string) (models.Sprint, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	sprint, ok := sp.s.sprints[id]
	if !ok {
		return models.Sprint{}, gorm.ErrRecordNotFound
	}
	return sp.s.withScope(sprint), nil
}

func (sp *SprintStore) MaxSprintNumber(_ context.Context, projectID string) (int, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	maxNumber := 0
	for _, sprint := range sp.s.sprints {
		if sprint.ProjectID == projectID && sprint.SprintNumber > maxNumber {
			maxNumber = sprint.SprintNumber
		}
	}
	return maxNumber, nil
}

func (sp *SprintStore) Create(_ context.Context, sprint *models.Sprint) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	sp.s.newID(&sprint.ID)
	sprint.CreatedAt = sp.s.now()
	sprint.UpdatedAt = sprint.CreatedAt
	stored := *sprint
	stored.Tasks, stored.Deliveries = nil, nil
	sp.s.sprints[sprint.ID] = stored
	return nil
}

func (sp *SprintStore) Update(_ context.Context, sprint *models.Sprint) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.sprints[sprint.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	sprint.UpdatedAt = sp.s.now()
	stored := *sprint
	stored.Tasks, stored.Deliveries = nil, nil
	sp.s.sprints[sprint.ID] = stored
	return nil
}

func (sp *SprintStore) Swap(_ context.Context, first, second models.Sprint) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	a, okA := sp.s.sprints[first.ID]
	b, okB := sp.s.sprints[second.ID]
	if !okA || !okB {
		return gorm.ErrRecordNotFound
	}
	a.SprintNumber, b.SprintNumber = b.SprintNumber, a.SprintNumber
	sp.s.sprints[a.ID] = a
	sp.s.sprints[b.ID] = b
	return nil
}

func (sp *SprintStore) Delete(_ context.Context, id string) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.sprints[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	sp.s.deleteSprintScope(id)
	delete(sp.s.sprints, id)
	return nil
}

func (sp *SprintStore) FindTask(_ context.Context, id string) (models.SprintTask, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	task, ok := sp.s.tasks[id]
	if !ok {
		return models.SprintTask{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (sp *SprintStore) MaxTaskOrder(_ context.Context, sprintID string) (int, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	maxOrder := 0
	for _, task := range sp.s.tasks {
		if task.SprintID == sprintID && task.OrderIndex > maxOrder {
			maxOrder = task.OrderIndex
		}
	}
	return maxOrder, nil
}

func (sp *SprintStore) CreateTask(_ context.Context, task *models.SprintTask) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	sp.s.newID(&task.ID)
	task.CreatedAt = sp.s.now()
	task.UpdatedAt = task.CreatedAt
	sp.s.tasks[task.ID] = *task
	return nil
}

func (sp *SprintStore) UpdateTask(_ context.Context, task *models.SprintTask) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	task.UpdatedAt = sp.s.now()
	sp.s.tasks[task.ID] = *task
	return nil
}

func (sp *SprintStore) DeleteTask(_ context.Context, id string) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	sp.s.unlinkTask(id)
	delete(sp.s.tasks, id)
	return nil
}

func (sp *SprintStore) FindDelivery(_ context.Context, id string) (models.SprintDelivery, error) {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	delivery, ok := sp.s.deliveries[id]
	if !ok {
		return models.SprintDelivery{}, gorm.ErrRecordNotFound
	}
	return delivery, nil
}

func (sp *SprintStore) CreateDelivery(_ context.Context, delivery *models.SprintDelivery) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	sp.s.newID(&delivery.ID)
	delivery.CreatedAt = sp.s.now()
	delivery.UpdatedAt = delivery.CreatedAt
	sp.s.deliveries[delivery.ID] = *delivery
	return nil
}

func (sp *SprintStore) UpdateDelivery(_ context.Context, delivery *models.SprintDelivery) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.deliveries[delivery.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delivery.UpdatedAt = sp.s.now()
	sp.s.deliveries[delivery.ID] = *delivery
	return nil
}

func (sp *SprintStore) DeleteDelivery(_ context.Context, id string) error {
	sp.s.mu.Lock()
	defer sp.s.mu.Unlock()
	if sp.s.Fail != nil {
		return sp.s.Fail
	}
	if _, ok := sp.s.deliveries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(sp.s.deliveries, id)
	return nil
}
