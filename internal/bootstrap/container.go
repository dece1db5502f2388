package bootstrap

import (
	"context"
	"log"
	"time"

	"bookease-be/internal/config"
	"bookease-be/internal/controller"
	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/pkg/mailer"
	"bookease-be/internal/pkg/payment"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/pkg/sms"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/unitofwork"
	"bookease-be/internal/service"
	"bookease-be/internal/worker"
	"bookease-be/pkg/booking/cancellation"
	bookingEvents "bookease-be/pkg/booking/events"
	pktNats "bookease-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ServiceController controller.IServiceController
	BookingController controller.IBookingController
	PaymentController controller.IPaymentController
	AdminController   controller.IAdminController

	// Background services (run by main.go)
	ConsumerService   service.IConsumerService
	CompletionSweeper *worker.CompletionSweeper
	StatsInvalidator  *worker.StatsInvalidator

	eventSubscriber *pktNats.Subscriber

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	tokens := serverutils.NewTokenIssuer(cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.Payment.Currency,
		cfg.App.ClientURL,
		sysLogger,
	)
	smsSender := sms.NewSender(cfg.SMS.TwilioAccountSid, cfg.SMS.TwilioAuthToken, cfg.SMS.FromNumber, sysLogger)

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	events := bookingEvents.NewNatsPublisher(natsPub, sysLogger)

	var natsSub *pktNats.Subscriber
	if natsPub != nil {
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		}
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	idempotency := memory.NewRedisIdempotencyStore(rdb, 72*time.Hour)

	catalogCache := memory.NewCatalogCache(5 * time.Minute)
	statsCache := memory.NewStatsCache(time.Minute)

	// 4. Payment gateways
	checkoutGateway, webhookGateways := newGateways(cfg)
	log.Printf("[INFO] Using payment provider: %s", checkoutGateway.Name())

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.NotificationTopic, pubSub)
	notificationService := service.NewNotificationService(uowFactory, emailService, smsSender, cfg.App.AdminAlertPhone, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.App.NotificationTopic, notificationService, sysLogger)

	refundIssuers := cancellation.RefundIssuers{checkoutGateway.Name(): checkoutGateway}
	for _, gw := range webhookGateways {
		refundIssuers[gw.Name()] = gw
	}

	orchestrator := cancellation.NewOrchestrator(
		uowFactory,
		refundIssuers,
		notificationService,
		events,
		sysLogger,
		cancellation.Config{RefundTimeout: cfg.Payment.RefundTimeout},
	)

	authService := service.NewAuthService(uowFactory, tokens, sysLogger)
	catalogService := service.NewCatalogService(uowFactory, catalogCache, sysLogger)
	bookingService := service.NewBookingService(uowFactory, orchestrator, publisherService, events, statsCache, sysLogger)
	paymentService := service.NewPaymentService(
		uowFactory,
		checkoutGateway,
		webhookGateways,
		idempotency,
		publisherService,
		events,
		statsCache,
		service.PaymentServiceConfig{SuccessURL: cfg.Payment.SuccessURL, CancelURL: cfg.Payment.CancelURL},
		sysLogger,
	)
	analyticsService := service.NewAnalyticsService(uowFactory, statsCache)

	// 6. Controllers
	auth := tokens.JwtMiddleware
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ServiceController: controller.NewServiceController(catalogService, auth),
		BookingController: controller.NewBookingController(bookingService, auth),
		PaymentController: controller.NewPaymentController(paymentService, auth),
		AdminController:   controller.NewAdminController(analyticsService, auth),

		ConsumerService:   consumerService,
		CompletionSweeper: worker.NewCompletionSweeper(bookingService, cfg.App.CompletionInterval, sysLogger),
		StatsInvalidator:  worker.NewStatsInvalidator(statsCache, sysLogger),

		eventSubscriber: natsSub,

		Logger: sysLogger,

		closers: []func(){
			func() { _ = pubSub.Close() },
			func() { _ = rdb.Close() },
			func() {
				if natsPub != nil {
					natsPub.Close()
				}
			},
			func() {
				if natsSub != nil {
					natsSub.Close()
				}
			},
			func() { _ = sysLogger.Sync() },
		},
	}
}

// newGateways returns the gateway used for new checkouts, plus every other
// configured gateway so its webhooks and refunds are still served.
func newGateways(cfg *config.Config) (payment.Gateway, []payment.Gateway) {
	var stripeGateway, midtransGateway payment.Gateway
	if cfg.Payment.StripeSecretKey != "" || cfg.Payment.Provider != payment.ProviderMidtrans {
		verify := cfg.App.Environment != "development" || cfg.Payment.StripeWebhookSecret != ""
		stripeGateway = payment.NewStripeGateway(
			cfg.Payment.StripeSecretKey,
			cfg.Payment.StripeWebhookSecret,
			cfg.Payment.Currency,
			verify,
		)
	}
	if cfg.Payment.MidtransServerKey != "" || cfg.Payment.Provider == payment.ProviderMidtrans {
		midtransGateway = payment.NewMidtransGateway(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransProduction)
	}

	if cfg.Payment.Provider == payment.ProviderMidtrans {
		if stripeGateway != nil {
			return midtransGateway, []payment.Gateway{stripeGateway}
		}
		return midtransGateway, nil
	}
	if midtransGateway != nil {
		return stripeGateway, []payment.Gateway{midtransGateway}
	}
	return stripeGateway, nil
}

// SubscribeEvents keeps the local dashboard cache in step with booking changes
// made by other replicas. It does nothing when NATS is unavailable.
func (c *Container) SubscribeEvents(ctx context.Context) error {
	if c.eventSubscriber == nil {
		return nil
	}
	return c.eventSubscriber.Subscribe(ctx, pktNats.SubjectPrefix+".>", "", c.StatsInvalidator.Handle)
}

// Close releases connections held by the container.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
