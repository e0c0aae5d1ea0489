package bootstrap

import (
	"fmt"
	"strings"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/controller"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/mailer"
	"ai-imagegen-be/internal/pkg/metrics"
	"ai-imagegen-be/internal/pkg/ratelimit"
	"ai-imagegen-be/internal/pkg/serverutils"
	"ai-imagegen-be/internal/repository/memory"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/internal/service"
	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/imagegen/factory"
	"ai-imagegen-be/pkg/payment/midtrans"
	"ai-imagegen-be/pkg/storage"

	pktNats "ai-imagegen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	PaymentController controller.IPaymentController
	ImageController   controller.IImageController

	// Services (also used by the operator CLI)
	UowFactory     unitofwork.RepositoryFactory
	Ledger         service.ICreditLedger
	UserService    service.IUserService
	PaymentService service.IPaymentService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// HTTP plumbing
	JwtMiddleware  fiber.Handler
	LimiterStorage fiber.Storage
	Registry       *prometheus.Registry
	Logger         logger.ILogger

	closers []func()
}

// NewContainer wires every component. A nil db selects the in-memory store,
// which is only suitable for local development.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	if !strings.EqualFold(cfg.Payment.Currency, midtrans.Currency) {
		return nil, fmt.Errorf("currency %q is not supported by the midtrans gateway, set CURRENCY=%s",
			cfg.Payment.Currency, midtrans.Currency)
	}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("Bootstrap", "No database configured, using in-memory store", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(c.Registry)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.NatsStream, "")
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher, domain events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Infrastructure
	provider, err := factory.NewProvider(factory.Config{
		Provider:     cfg.Provider.Name,
		APIKey:       cfg.Provider.APIKey,
		BaseURL:      cfg.Provider.BaseURL,
		Timeout:      cfg.Provider.Timeout,
		MaxPerSecond: cfg.Provider.MaxPerSecond,
		Burst:        cfg.Provider.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("image provider: %w", err)
	}

	imageStore, err := storage.NewLocalStore(cfg.App.UploadDir, cfg.App.UploadURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}

	gateway := midtrans.NewMidtransGateway(midtrans.Config{
		ServerKey:    cfg.Payment.MidtransServerKey,
		IsProduction: cfg.Payment.IsProduction,
		FinishURL:    cfg.Payment.FinishURL,
	})

	limiterStorage, rdb := ratelimit.NewStorage(cfg.App.RedisURL, sysLogger)
	c.LimiterStorage = limiterStorage
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Services
	ledger := service.NewCreditLedger(uowFactory, sysLogger, m)
	receiptQueue := service.NewPublisherService(cfg.App.ReceiptTopic, pubSub)

	c.UowFactory = uowFactory
	c.Ledger = ledger
	c.UserService = service.NewUserService(uowFactory, ledger, publisher, sysLogger)
	c.PaymentService = service.NewPaymentService(
		uowFactory,
		ledger,
		service.NewSettlementTracker(),
		gateway,
		publisher,
		receiptQueue,
		sysLogger,
		m,
		cfg.Payment.Currency,
	)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.ReceiptTopic, uowFactory, emailService, sysLogger)

	authService := service.NewAuthService(uowFactory, publisher, sysLogger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	generationService := service.NewGenerationService(
		uowFactory,
		ledger,
		provider,
		imageStore,
		publisher,
		sysLogger,
		m,
		cfg.Provider.Timeout,
	)
	imageService := service.NewImageService(uowFactory, imageStore, sysLogger)

	// 5. Controllers
	var generateLimiter fiber.Handler
	if cfg.RateLimit.Enabled {
		generateLimiter = ratelimit.New(limiterStorage, cfg.RateLimit.GenerateMax, cfg.RateLimit.GenerateWindow,
			"Too many generation requests, please slow down")
	}

	c.JwtMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(c.UserService)
	c.PaymentController = controller.NewPaymentController(c.PaymentService, sysLogger)
	c.ImageController = controller.NewImageController(generationService, imageService, generateLimiter)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
