package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/portal-service/internal/api/http"
	"github.com/spec-kit/portal-service/internal/api/http/handlers"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/config"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/identity"
	"github.com/spec-kit/portal-service/internal/observability"
	"github.com/spec-kit/portal-service/internal/persistence"
	"github.com/spec-kit/portal-service/internal/repository"
	"github.com/spec-kit/portal-service/internal/service"
	"github.com/spec-kit/portal-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	pollRepo := repository.NewPollRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)

	sessions := auth.NewSessionTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	provider := identity.NewClient(cfg.Identity)
	resolver := auth.NewResolver(sessions, provider, userRepo, logger)
	extractor := auth.NewCandidateExtractor(cfg.Auth.SessionCookie)
	authMiddleware := auth.NewMiddleware(extractor, resolver)
	authorizer := auth.NewAuthorizer(teamRepo)
	cronGuard := auth.NewCronGuard(cfg.Jobs.CronSecrets)

	dispatcher := events.NewInMemoryDispatcher()

	throttle := service.NewLoginThrottle(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow(), logger)
	authService := service.NewAuthService(userRepo, sessions, throttle, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	teamService := service.NewTeamService(teamRepo)
	newsService := service.NewNewsService(newsRepo, dispatcher)
	eventService := service.NewEventService(eventRepo, dispatcher)
	pollService := service.NewPollService(pollRepo, redis.Client, dispatcher, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, authorizer, dispatcher)
	groupService := service.NewGroupService(groupRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.SessionCookie, cfg.Auth.CookieSecure),
		Users:          handlers.NewUsersHandler(userService),
		News:           handlers.NewNewsHandler(newsService),
		Events:         handlers.NewEventsHandler(eventService),
		Polls:          handlers.NewPollsHandler(pollService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Groups:         handlers.NewGroupsHandler(groupService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Jobs:           handlers.NewJobsHandler(eventService, pollService),
		AuthMiddleware: authMiddleware,
		CronGuard:      cronGuard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
