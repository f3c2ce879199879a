package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/donely-api/dto"
)

// OverviewRepository loads the flat tables behind the admin overview with one
// query per table over the connection pool GORM already holds.
type OverviewRepository struct {
	db *sqlx.DB
}

// NewOverviewRepository wraps the GORM connection pool in sqlx
func NewOverviewRepository(gdb *gorm.DB) (*OverviewRepository, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	db := sqlx.NewDb(sqlDB, "postgres")
	// Map struct fields to the same column names GORM migrated
	naming := schema.NamingStrategy{}
	db.MapperFunc(func(field string) string {
		return naming.ColumnName("", field)
	})
	return &OverviewRepository{db: db}, nil
}

// Nullable text columns are coalesced since database/sql cannot scan NULL into a string
const (
	overviewClientsQuery = `SELECT id, email, username, name, role, active, created_at, updated_at
		FROM profiles WHERE role = 'CLIENT' ORDER BY name ASC`
	overviewAccessQuery = `SELECT id, client_id, project_id, active, last_login_at, created_at, updated_at
		FROM client_project_access ORDER BY created_at ASC`
	overviewProjectsQuery = `SELECT id, name, slug, COALESCE(description, '') AS description, status, progress,
		COALESCE(client_name, '') AS client_name,
		start_date, target_end_date, created_at, updated_at FROM projects`
	overviewRoadmapQuery = `SELECT id, project_id, title, COALESCE(description, '') AS description, status, effort_estimate,
		start_date, end_date, order_index, dependencies, created_at, updated_at
		FROM roadmap_items ORDER BY order_index ASC`
	overviewSprintsQuery = `SELECT id, project_id, roadmap_item_id, sprint_number, COALESCE(goal, '') AS goal, start_date, end_date,
		status, created_at, updated_at FROM sprints ORDER BY sprint_number ASC`
	overviewReportsQuery = `SELECT id, project_id, sprint_id, title, COALESCE(content, '') AS content, published, published_at,
		version, created_at, updated_at FROM reports ORDER BY created_at DESC`
	overviewEvidencesQuery = `SELECT id, project_id, report_id, sprint_task_id, type, storage_key, url,
		COALESCE(thumbnail_url, '') AS thumbnail_url, mime_type, size_bytes, file_name, uploaded_by, created_at
		FROM evidences ORDER BY created_at ASC`
)

// LoadOverview runs one SELECT per table inside a read-only transaction
func (r *OverviewRepository) LoadOverview(ctx context.Context) (dto.OverviewData, error) {
	var data dto.OverviewData

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return data, err
	}
	defer tx.Rollback()

	queries := []struct {
		name  string
		dest  interface{}
		query string
	}{
		{"clients", &data.Clients, overviewClientsQuery},
		{"access", &data.Access, overviewAccessQuery},
		{"projects", &data.Projects, overviewProjectsQuery},
		{"roadmap", &data.Roadmap, overviewRoadmapQuery},
		{"sprints", &data.Sprints, overviewSprintsQuery},
		{"reports", &data.Reports, overviewReportsQuery},
		{"evidences", &data.Evidences, overviewEvidencesQuery},
	}
	for _, q := range queries {
		if err := tx.SelectContext(ctx, q.dest, q.query); err != nil {
			return dto.OverviewData{}, fmt.Errorf("error loading %s: %w", q.name, err)
		}
	}

	return data, tx.Commit()
}
