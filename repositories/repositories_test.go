package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"

	"github.com/donely-api/services"
)

var (
	_ services.ProfileStore   = (*ProfileRepository)(nil)
	_ services.ProjectStore   = (*ProjectRepository)(nil)
	_ services.AccessStore    = (*AccessRepository)(nil)
	_ services.RoadmapStore   = (*RoadmapRepository)(nil)
	_ services.SprintStore    = (*SprintRepository)(nil)
	_ services.ReportStore    = (*ReportRepository)(nil)
	_ services.EvidenceStore  = (*EvidenceRepository)(nil)
	_ services.CommentStore   = (*CommentRepository)(nil)
	_ services.OverviewSource = (*OverviewRepository)(nil)
)

// The overview mapper relies on GORM's column naming for these fields
func TestOverviewColumnNames(t *testing.T) {
	naming := schema.NamingStrategy{}
	cases := map[string]string{
		"ID":            "id",
		"ProjectID":     "project_id",
		"ThumbnailURL":  "thumbnail_url",
		"LastLoginAt":   "last_login_at",
		"TargetEndDate": "target_end_date",
		"SizeBytes":     "size_bytes",
	}
	for field, column := range cases {
		assert.Equal(t, column, naming.ColumnName("", field), field)
	}
}
