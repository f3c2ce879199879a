package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	v1 "github.com/donely-api/api/v1"
	"github.com/donely-api/config"
	"github.com/donely-api/database"
	"github.com/donely-api/lib/mailer"
	"github.com/donely-api/lib/sessions"
	"github.com/donely-api/lib/storage"
	"github.com/donely-api/repositories"
	"github.com/donely-api/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForServer(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	var sessionStore sessions.Store
	if cfg.RedisURL != "" {
		redisStore, err := sessions.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessionStore = redisStore
		log.Println("✅ Connected to Redis session store")
	} else {
		log.Println("⚠️ REDIS_URL not set, revoked tokens are kept in memory")
		sessionStore = sessions.NewMemoryStore()
	}

	files, err := storage.NewDiskStorage(cfg.StorageDir)
	if err != nil {
		return err
	}

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	}

	profiles := repositories.NewProfileRepository(db)
	projects := repositories.NewProjectRepository(db)
	access := repositories.NewAccessRepository(db)
	roadmap := repositories.NewRoadmapRepository(db)
	sprints := repositories.NewSprintRepository(db)
	reports := repositories.NewReportRepository(db)
	evidences := repositories.NewEvidenceRepository(db)
	comments := repositories.NewCommentRepository(db)
	overview, err := repositories.NewOverviewRepository(db)
	if err != nil {
		return err
	}

	svc := &v1.Services{
		Auth: services.NewAuthService(profiles, access, sessionStore, mail, services.AuthConfig{
			Secret:   cfg.JWTSecret,
			TokenTTL: cfg.TokenTTL,
			ResetTTL: cfg.ResetTokenTTL,
			AppURL:   cfg.AppURL,
		}),
		Clients:      services.NewClientService(profiles, access),
		Projects:     services.NewProjectService(projects, roadmap, evidences, files),
		Access:       services.NewAccessService(access, projects, profiles),
		Roadmap:      services.NewRoadmapService(roadmap, projects),
		Sprints:      services.NewSprintService(sprints, projects, roadmap),
		Reports:      services.NewReportService(reports, projects, sprints, evidences, files),
		Evidences:    services.NewEvidenceService(evidences, reports, sprints, access, files, cfg.PublicURL),
		Comments:     services.NewCommentService(comments, projects, reports, access),
		Dashboard:    services.NewDashboardService(projects, access, roadmap, sprints, reports, comments),
		Overview:     services.NewOverviewService(overview),
		TokenTTL:     cfg.TokenTTL,
		CookieSecure: cfg.CookieSecure,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           v1.NewRouter(svc, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Donely API starting on port %s", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("✅ Server stopped")
	return nil
}
