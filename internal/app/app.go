// Package app wires repositories, services and handlers into the HTTP
// application.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen/internal/catalog"
	"kitchen/internal/checkout"
	"kitchen/internal/config"
	"kitchen/internal/handlers"
	"kitchen/internal/middleware"
	"kitchen/internal/models"
	"kitchen/internal/repositories"
	"kitchen/internal/services"
	"kitchen/internal/validation"
	"kitchen/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Deps are the resources the application is built over.
type Deps struct {
	// DB holds the durable client scope and the catalog. It must be migrated.
	DB *gorm.DB
	// Tabs holds the tab scope. Nil keeps tabs in process memory.
	Tabs repositories.StorageRepository
	// Publisher receives order events. Nil disables them.
	Publisher services.EventPublisher
	JWTSecret string
	Settings  checkout.Settings
	// Now overrides the clock, for tests.
	Now func() time.Time
	// Status is reported by /health.
	Status map[string]string
}

// Build creates the fiber app with every route registered.
func Build(d Deps) *fiber.App {
	tabs := d.Tabs
	if tabs == nil {
		tabs = repositories.NewMockStorageRepository()
	}
	durable := repositories.NewGORMStorageRepository(d.DB)
	storage := services.NewStorage(durable, tabs)
	if d.Now != nil {
		storage.SetClock(d.Now)
	}
	validate := validation.New()

	menuService := services.NewMenuService(repositories.NewGORMFoodRepository(d.DB))
	cartService := services.NewCartService(storage, menuService, validate)
	orderService := services.NewOrderService(repositories.NewStorageOrderRepository(durable), storage, menuService, d.Publisher)
	authService := services.NewAuthService(storage, validate, d.JWTSecret)
	checkoutService := services.NewCheckoutService(storage, orderService, validate, d.Settings)

	app := fiber.New(fiber.Config{
		AppName:      "chuks-kitchen",
		ErrorHandler: errorHandler,
	})
	app.Use(logger.New())
	app.Use(middleware.ClientContext())

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   storage.Now().Format(time.RFC3339),
		}
		for k, v := range d.Status {
			body[k] = v
		}
		return c.JSON(body)
	})

	apiV1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService)
	handlers.NewMenuHandler(menuService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterAccountRoutes(protected)
	handlers.NewOrderHandler(orderService, validate).RegisterRoutes(protected)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(protected)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

// Resources are the live connections opened from the configuration.
type Resources struct {
	DB     *gorm.DB
	Redis  *redis.Client
	MQ     *rabbitmq.Client
	Deps   Deps
	closed bool
}

// Open connects to the database, Redis and RabbitMQ as configured, migrates
// the schema and seeds the catalog. Redis and RabbitMQ are optional.
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	db, err := OpenDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	res := &Resources{DB: db}
	res.Deps = Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Settings:  checkout.Settings{ProcessingDelay: cfg.ProcessingDelay, PromoTTL: cfg.PromoTTL},
		Status:    map[string]string{"database": cfg.DatabaseDriver, "tabs": "memory", "events": "disabled"},
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		res.Redis = redis.NewClient(opts)
		if err := res.Redis.Ping(ctx).Err(); err != nil {
			res.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		res.Deps.Tabs = repositories.NewRedisStorageRepository(res.Redis, cfg.TabTTL)
		res.Deps.Status["tabs"] = "redis"
		log.Info().Str("addr", opts.Addr).Dur("ttl", cfg.TabTTL).Msg("tab storage on redis")
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.DefaultConfig(cfg.RabbitMQURL))
		if err != nil {
			res.Close()
			return nil, err
		}
		res.MQ = mq
		res.Deps.Publisher = mq
		res.Deps.Status["events"] = "rabbitmq"
	}

	return res, nil
}

// Close releases every open connection.
func (r *Resources) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.MQ != nil {
		errs = append(errs, r.MQ.Close())
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

// OpenDB opens a gorm connection for driver "sqlite" or "postgres".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalidConfig, driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables and seeds the menu catalog.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.StorageEntry{}, &models.Category{}, &models.FoodItem{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	c, err := catalog.Default()
	if err != nil {
		return err
	}
	return catalog.Seed(repositories.NewGORMFoodRepository(db), c)
}
