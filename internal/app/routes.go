package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/middleware"
	"github.com/solsticehq/solstice-api/internal/modules/auth"
	"github.com/solsticehq/solstice-api/internal/modules/intake"
	"github.com/solsticehq/solstice-api/internal/modules/newsletter"
	"github.com/solsticehq/solstice-api/internal/modules/post"
	"github.com/solsticehq/solstice-api/internal/modules/upload"
	"github.com/solsticehq/solstice-api/internal/pkg/dispatchlog"
	"github.com/solsticehq/solstice-api/internal/pkg/mail"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"go.uber.org/zap"
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group("/api", middleware.OptionalAuth())
	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	sender := mail.New(mail.BuildMailConfig(cfg))
	journal := dispatchlog.NewService(a.rc)

	newsletterStore := newsletter.NewStore(a.db)
	newsletterSvc := newsletter.NewService(a.db, cfg.Newsletter.DefaultSource)
	newsletterQuery := newsletter.NewQueryService(a.db)
	dispatcher := newsletter.NewDispatcher(newsletterStore, sender, newsletter.DispatcherOptions{
		SiteName:  cfg.SiteName,
		WebURL:    cfg.WebURL,
		From:      cfg.Mail.From,
		BatchSize: cfg.Newsletter.BatchSize,
	})
	dispatcher.SetJournal(journal)
	dispatcher.SetLogger(a.logger.Named("dispatch"))
	newsletter.NewHandler(newsletterSvc, newsletterQuery, journal).RegisterRoutes(api, authMW)

	postSvc := post.NewService(a.db)
	post.NewHandler(postSvc, dispatcher, a.logger.Named("post")).RegisterRoutes(api, authMW)

	intakeSvc := intake.NewService(a.db, sender, intake.Options{
		SiteName:      cfg.SiteName,
		NotifyOwner:   cfg.Intake.NotifyOwner,
		OwnerEmail:    cfg.Owner.Email,
		RetentionDays: cfg.Intake.RetentionDays,
	})
	intakeSvc.SetLogger(a.logger.Named("intake"))
	a.intakeSvc = intakeSvc
	intake.NewHandler(intakeSvc).RegisterRoutes(api, authMW)

	mirror, err := upload.NewS3Mirror(context.Background(), cfg.Uploads.S3)
	if err != nil {
		a.logger.Warn("s3 mirror disabled", zap.Error(err))
	}
	upload.NewHandler(cfg.Uploads, mirror, cfg.WebURL, a.logger.Named("upload")).RegisterRoutes(api, authMW)

	auth.NewHandler(auth.NewService(cfg.Owner)).RegisterRoutes(api, authMW)
}
