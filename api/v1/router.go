package v1

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/donely-api/middleware"
	"github.com/donely-api/services"
	"github.com/donely-api/utils"
)

// maxUploadMemory is how much of a multipart body gin keeps in memory before spilling to disk
const maxUploadMemory = 32 << 20

// Services bundles everything the v1 controllers depend on
type Services struct {
	Auth      *services.AuthService
	Clients   *services.ClientService
	Projects  *services.ProjectService
	Access    *services.AccessService
	Roadmap   *services.RoadmapService
	Sprints   *services.SprintService
	Reports   *services.ReportService
	Evidences *services.EvidenceService
	Comments  *services.CommentService
	Dashboard *services.DashboardService
	Overview  *services.OverviewService

	TokenTTL     time.Duration
	CookieSecure bool
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, svc *Services) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// Auth endpoints, /me and /password are guarded inside
	NewAuthController(svc.Auth, svc.TokenTTL, svc.CookieSecure).RegisterRoutes(router)

	evidenceController := NewEvidenceController(svc.Evidences)

	authenticated := router.Group("")
	authenticated.Use(middleware.AuthMiddleware(svc.Auth))
	evidenceController.RegisterFileRoute(authenticated)

	// Admin endpoints - protected by AdminMiddleware
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(svc.Auth), middleware.AdminMiddleware())
	NewClientController(svc.Clients).RegisterRoutes(admin)
	NewProjectController(svc.Projects, svc.Access).RegisterRoutes(admin)
	NewRoadmapController(svc.Roadmap).RegisterRoutes(admin)
	NewSprintController(svc.Sprints).RegisterRoutes(admin)
	NewReportController(svc.Reports).RegisterRoutes(admin)
	evidenceController.RegisterRoutes(admin)
	NewCommentController(svc.Comments).RegisterRoutes(admin)
	NewOverviewController(svc.Overview).RegisterRoutes(admin)

	// Client endpoints - protected by ClientMiddleware
	client := router.Group("/client")
	client.Use(middleware.AuthMiddleware(svc.Auth), middleware.ClientMiddleware())
	NewDashboardController(svc.Dashboard, svc.Comments).RegisterRoutes(client)
}

// NewRouter builds the gin engine serving /api/v1
func NewRouter(svc *Services, allowedOrigins []string) *gin.Engine {
	registerValidators()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = maxUploadMemory

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	RegisterRoutes(router.Group("/api/v1"), svc)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Route not found",
		})
	})

	return router
}

var validatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return utils.IsValidSlug(fl.Field().String())
		}); err != nil {
			log.Printf("Warning: failed to register slug validator: %v", err)
		}
	})
}
