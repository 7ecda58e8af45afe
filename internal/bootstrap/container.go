package bootstrap

import (
	"context"
	"log"

	"staysure-portal-be/internal/config"
	"staysure-portal-be/internal/controller"
	"staysure-portal-be/internal/handler"
	"staysure-portal-be/internal/pkg/logger"
	"staysure-portal-be/internal/pkg/mailer"
	"staysure-portal-be/internal/pkg/serverutils"
	"staysure-portal-be/internal/pkg/vault"
	"staysure-portal-be/internal/repository/memory"
	redisrepo "staysure-portal-be/internal/repository/redis"
	"staysure-portal-be/internal/repository/unitofwork"
	"staysure-portal-be/internal/service"
	"staysure-portal-be/internal/websocket"
	"staysure-portal-be/pkg/admin/dashboard"
	"staysure-portal-be/pkg/events"
	pktNats "staysure-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	UserController        controller.IUserController
	ApplicationController controller.IApplicationController
	AdminController       controller.IAdminController
	PaymentController     controller.IPaymentController

	// Background services (run from main)
	NotifierService service.INotifierService

	// WebSockets
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Token signing and verification share the one configured secret.
	serverutils.SetJWTSecret(cfg.App.JWTSecret)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. In-process event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Invalid Redis URL: %v", err)
	} else {
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	sessionRepo := redisrepo.NewSessionRepository(rdb)
	statsCache := memory.NewStatsCache()

	passportSecret := cfg.App.PassportSecret
	if passportSecret == "" {
		// Fall back so dev environments work without an extra variable.
		passportSecret = cfg.App.JWTSecret
	}
	cipher, err := vault.NewPassportCipher(passportSecret)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize passport cipher: %v", err)
	}

	// WebSocket hub with its own log file
	wsLogger := logger.NewIsolatedLogger("logs/feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Topics.StatusChanged, pubSub)
	notifierService := service.NewNotifierService(pubSub, cfg.Topics.StatusChanged, emailService, wsHub)

	authService := service.NewAuthService(uowFactory, emailService, sessionRepo, natsPub, cfg.App.JWTSecret)
	userService := service.NewUserService(uowFactory)
	applicationService := service.NewApplicationService(uowFactory, cipher, natsPub)
	paymentService := service.NewPaymentService(uowFactory, natsPub)

	aggregator := dashboard.NewAggregator(sysLogger)
	adminService := service.NewAdminService(
		uowFactory,
		applicationService,
		cipher,
		aggregator,
		statsCache,
		publisherService,
		natsPub,
		sysLogger,
	)

	// Mirror bus events into the system log for the back-office viewer.
	if natsSub != nil {
		if err := natsSub.Subscribe("portal.>", "portal-event-logger", func(ctx context.Context, e events.Event) error {
			sysLogger.Info("Events", e.EventType(), e.Payload())
			return nil
		}); err != nil {
			log.Printf("[WARN] Failed to subscribe event logger: %v", err)
		}
	}

	feedHandler := handler.NewFeedHandler(wsHub, wsLogger, cfg.App.JWTSecret)

	return &Container{
		AuthController:        controller.NewAuthController(authService),
		UserController:        controller.NewUserController(userService),
		ApplicationController: controller.NewApplicationController(applicationService),
		AdminController:       controller.NewAdminController(adminService, authService, applicationService),
		PaymentController:     controller.NewPaymentController(paymentService),

		NotifierService: notifierService,

		FeedHandler:  feedHandler,
		WebSocketHub: wsHub,
	}
}
