package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nonomnouns/clankpad/internal/application/announcement"
	imageapp "github.com/nonomnouns/clankpad/internal/application/image"
	"github.com/nonomnouns/clankpad/internal/application/notification"
	"github.com/nonomnouns/clankpad/internal/application/tokenrequest"
	"github.com/nonomnouns/clankpad/internal/application/tokenstatus"
	"github.com/nonomnouns/clankpad/internal/application/webhook"
	"github.com/nonomnouns/clankpad/internal/config"
	"github.com/nonomnouns/clankpad/internal/infrastructure/dynamo"
	"github.com/nonomnouns/clankpad/internal/infrastructure/farcaster"
	"github.com/nonomnouns/clankpad/internal/infrastructure/kv"
	"github.com/nonomnouns/clankpad/internal/infrastructure/neynar"
	"github.com/nonomnouns/clankpad/internal/infrastructure/push"
	s3infra "github.com/nonomnouns/clankpad/internal/infrastructure/s3"
	"github.com/nonomnouns/clankpad/internal/transport/http/handler"
	appmiddleware "github.com/nonomnouns/clankpad/internal/transport/http/middleware"
	"github.com/nonomnouns/clankpad/internal/transport/http/ui"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AnnouncementRepo      *dynamo.AnnouncementRepo
	TokenRequestRepo      *dynamo.TokenRequestRepo
	NotificationTokenRepo *dynamo.NotificationTokenRepo
	Cache                 *kv.Cache
	Neynar                *neynar.Client
	Push                  *push.Sender
	S3Store               *s3infra.Store
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Skip-Rate-Limit"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to public write endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(deps.NotificationTokenRepo, deps.Cache, deps.Push)
	announceSvc := announcement.NewService(deps.AnnouncementRepo, deps.Cache, notifSvc, cfg.PublicBaseURL)
	statusSvc := tokenstatus.NewService(deps.TokenRequestRepo, deps.Neynar, notifSvc, cfg.BotFID, cfg.PublicBaseURL)
	requestSvc := tokenrequest.NewService(deps.TokenRequestRepo)
	verifier := farcaster.NewVerifier(deps.Neynar)
	webhookSvc := webhook.NewService(verifier, deps.NotificationTokenRepo, deps.Cache, deps.Push, cfg.PublicBaseURL)
	imageSvc := imageapp.NewService(deps.S3Store)

	healthH := handler.NewHealthHandler()
	announceH := handler.NewAnnouncementHandler(announceSvc)
	notifH := handler.NewNotificationHandler(notifSvc, cfg.PublicBaseURL)
	statusH := handler.NewTokenStatusHandler(statusSvc)
	requestH := handler.NewTokenRequestHandler(requestSvc)
	webhookH := handler.NewWebhookHandler(webhookSvc)
	imageH := handler.NewImageHandler(imageSvc)
	manifestH := handler.NewManifestHandler(cfg)

	r.Get("/", ui.Handler().ServeHTTP)
	r.Get("/.well-known/farcaster.json", manifestH.Get)

	r.Route("/api", func(r chi.Router) {
		r.Get("/announcements", announceH.List)
		r.With(sensitiveRL.Limit).Post("/announcements", announceH.Check)
		r.Get("/check-token-status", statusH.Check)
		r.With(sensitiveRL.Limit).Post("/notifications", notifH.Send)
		r.With(sensitiveRL.Limit).Post("/token-request", requestH.Create)
		r.Delete("/token-request", requestH.Delete)
		r.Post("/webhook", webhookH.Receive)
		r.With(sensitiveRL.Limit).Post("/image-handler", imageH.Upload)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
	})

	return r
}
