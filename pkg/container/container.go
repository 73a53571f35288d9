package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"adyen-checkout-backend/internal/config"
	"adyen-checkout-backend/internal/domains/paymentmean/builder"
	"adyen-checkout-backend/internal/domains/paymentmean/enricher"
	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/gateway/adyen"
	"adyen-checkout-backend/internal/domains/paymentmean/gateway/cached"
	"adyen-checkout-backend/internal/domains/paymentmean/gateway/mock"
	paymentMeanHandler "adyen-checkout-backend/internal/domains/paymentmean/handler"
	"adyen-checkout-backend/internal/domains/paymentmean/job"
	paymentMeanRepo "adyen-checkout-backend/internal/domains/paymentmean/repository"
	paymentMeanService "adyen-checkout-backend/internal/domains/paymentmean/service"
	infraCache "adyen-checkout-backend/internal/infrastructure/cache"
	"adyen-checkout-backend/internal/infrastructure/database"
	"adyen-checkout-backend/pkg/cache"
	"adyen-checkout-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Initialization order: config -> infrastructure -> repositories ->
// services -> handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	RedisOpt    asynq.RedisClientOpt

	// AdyenGateway talks to Adyen directly; the provider goes through
	// PaymentMethodGateway, which adds the /paymentMethods cache
	AdyenGateway         gateway.AdyenGateway
	PaymentMethodGateway gateway.AdyenGateway

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	PaymentMeanRepo paymentMeanRepo.PaymentMeanRepository
	PreferenceRepo  paymentMeanRepo.UserPreferenceRepository
	SessionStore    paymentMeanRepo.SessionStore

	// ========================================
	// SERVICE LAYER
	// ========================================
	PaymentMeanProvider paymentMeanService.EnrichedPaymentMeanProvider
	CheckoutService     paymentMeanService.CheckoutService
	StoredMethodService paymentMeanService.StoredMethodService
	Importer            paymentMeanService.PaymentMethodImporter

	// ========================================
	// HANDLER / JOB LAYER
	// ========================================
	PaymentMeanHandler *paymentMeanHandler.PaymentMeanHandler
	ImportJobHandler   *job.ImportPaymentMethodsHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE + QUEUE CLIENT
	// ========================================
	if err := c.initCache(ctx); err != nil {
		return nil, err
	}

	c.RedisOpt = asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	c.AsynqClient = asynq.NewClient(c.RedisOpt)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE ADYEN GATEWAY
	// ========================================
	if err := c.initGateways(); err != nil {
		return nil, fmt.Errorf("failed to init Adyen gateway: %w", err)
	}

	// ========================================
	// STEP 5: REPOSITORIES -> SERVICES -> HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initCache(ctx context.Context) error {
	if c.Config.Redis.Disabled {
		log.Println("⚠️  Redis disabled, using in-memory cache (single instance only)")
		c.Cache = cache.NewMemoryCache()
		return nil
	}

	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	// Sessions live in Redis, so checkout cannot work without it
	if err := redisCache.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.Cache = redisCache
	log.Println("✅ Redis connected")
	return nil
}

func (c *Container) initGateways() error {
	adyenGateway, err := NewAdyenGateway(c.Config.Adyen)
	if err != nil {
		return err
	}
	c.AdyenGateway = adyenGateway

	c.PaymentMethodGateway = c.AdyenGateway
	if ttl := c.Config.Checkout.PaymentMethodsCacheTTL; ttl > 0 {
		c.PaymentMethodGateway = cached.NewGateway(c.AdyenGateway, c.Cache, ttl)
	}
	return nil
}

// NewAdyenGateway builds the uncached Adyen gateway, or the in-memory mock
// when no API key is configured
func NewAdyenGateway(cfg config.AdyenConfig) (gateway.AdyenGateway, error) {
	if cfg.UseMock() {
		log.Println("⚠️  ADYEN_API_KEY not set, using mock Adyen gateway")
		return mock.NewMockAdyenGateway(), nil
	}

	adyenConfig := adyen.NewConfig(cfg.APIKey, cfg.MerchantAccount, cfg.Environment, cfg.LivePrefix)
	adyenConfig.CheckoutURL = cfg.CheckoutURL
	if cfg.APIVersion != "" {
		adyenConfig.APIVersion = cfg.APIVersion
	}
	if cfg.Timeout > 0 {
		adyenConfig.Timeout = cfg.Timeout
	}

	client, err := adyen.NewClient(adyenConfig)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Adyen client ready (%s)", adyenConfig.GetCheckoutURL())
	return client, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.PaymentMeanRepo = paymentMeanRepo.NewPaymentMeanRepository(pool)
	c.PreferenceRepo = paymentMeanRepo.NewUserPreferenceRepository(pool)
	c.SessionStore = paymentMeanRepo.NewSessionStore(c.Cache, c.Config.Checkout.SessionTTL)
}

func (c *Container) initServices() {
	checkoutCfg := c.Config.Checkout

	c.PaymentMeanProvider = paymentMeanService.NewEnrichedPaymentMeanProvider(
		c.PaymentMethodGateway,
		builder.NewOptionsBuilder(checkoutCfg.DefaultCountry, checkoutCfg.DefaultCurrency),
		enricher.NewAdyenEnricher(c.Config.Adyen.Environment == adyen.EnvironmentLive),
	)

	c.CheckoutService = paymentMeanService.NewCheckoutService(
		c.PaymentMeanRepo,
		c.PreferenceRepo,
		c.SessionStore,
		c.PaymentMeanProvider,
	)

	// Disabling goes through the cached gateway so the shopper's cached
	// method list is dropped as well
	c.StoredMethodService = paymentMeanService.NewStoredMethodService(
		c.PaymentMethodGateway,
		c.PreferenceRepo,
		c.SessionStore,
	)

	// The import always reads fresh data from Adyen
	c.Importer = paymentMeanService.NewPaymentMethodImporter(
		c.AdyenGateway,
		c.PaymentMeanRepo,
		checkoutCfg.DefaultCountry,
		checkoutCfg.DefaultCurrency,
	)
}

func (c *Container) initHandlers() {
	c.PaymentMeanHandler = paymentMeanHandler.NewPaymentMeanHandler(
		c.CheckoutService,
		c.StoredMethodService,
		c.Importer,
		c.AsynqClient,
	)
	c.ImportJobHandler = job.NewImportPaymentMethodsHandler(c.Importer)
}

// Cleanup releases resources on shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close Asynq client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		} else {
			log.Println("✅ Database connections closed")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
