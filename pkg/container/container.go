package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"cinema-backend/internal/config"
	infraCache "cinema-backend/internal/infrastructure/cache"
	"cinema-backend/internal/infrastructure/database"
	"cinema-backend/internal/infrastructure/storage"
	"cinema-backend/pkg/cache"
	"cinema-backend/pkg/jwt"

	cartHandler "cinema-backend/internal/domains/cart/handler"
	cartRepo "cinema-backend/internal/domains/cart/repository"
	cartService "cinema-backend/internal/domains/cart/service"
	movieHandler "cinema-backend/internal/domains/movie/handler"
	movieRepo "cinema-backend/internal/domains/movie/repository"
	movieService "cinema-backend/internal/domains/movie/service"
	orderHandler "cinema-backend/internal/domains/order/handler"
	orderRepo "cinema-backend/internal/domains/order/repository"
	orderService "cinema-backend/internal/domains/order/service"
	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/gateway/stripe"
	paymentHandler "cinema-backend/internal/domains/payment/handler"
	paymentRepo "cinema-backend/internal/domains/payment/repository"
	paymentService "cinema-backend/internal/domains/payment/service"
	userHandler "cinema-backend/internal/domains/user/handler"
	userRepo "cinema-backend/internal/domains/user/repository"
	userService "cinema-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton created once at startup.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *infraCache.RedisClient
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	// Repositories
	UserRepo    userRepo.UserRepository
	MovieRepo   movieRepo.MovieRepository
	CartRepo    cartRepo.CartRepository
	OrderRepo   orderRepo.OrderRepository
	PaymentRepo paymentRepo.PaymentRepository

	// External gateways
	CheckoutGateway gateway.CheckoutGateway

	// Services
	UserService    userService.UserService
	MovieService   movieService.MovieService
	CartService    cartService.CartService
	OrderService   orderService.OrderService
	PaymentService paymentService.PaymentService

	// Handlers
	UserHandler    *userHandler.UserHandler
	MovieHandler   *movieHandler.MovieHandler
	CartHandler    *cartHandler.CartHandler
	OrderHandler   *orderHandler.OrderHandler
	PaymentHandler *paymentHandler.PaymentHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the whole graph in dependency order:
// config -> infrastructure -> repositories -> services -> handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

// ========================================
// INITIALIZATION LAYERS
// ========================================

func (c *Container) initInfrastructure() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("database connected")

	redisClient := infraCache.NewRedisClient(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)
	if err := redisClient.Connect(ctx); err != nil {
		// Cache misses are tolerable; the app degrades without Redis.
		log.Printf("redis connection failed (non-critical): %v", err)
	} else {
		log.Println("redis connected")
	}
	c.RedisClient = redisClient
	c.Cache = infraCache.NewRedisCache(redisClient)

	minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("object storage ready")

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		time.Duration(c.Config.JWT.AccessTokenExpiry)*time.Minute,
	)

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.MovieRepo = movieRepo.NewPostgresMovieRepository(pool)
	c.CartRepo = cartRepo.NewPostgresCartRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.PaymentRepo = paymentRepo.NewPaymentRepository(pool)
}

func (c *Container) initServices() error {
	stripeClient, err := stripe.NewClient(stripe.NewConfig(c.Config.Stripe))
	if err != nil {
		return fmt.Errorf("failed to initialize checkout gateway: %w", err)
	}
	c.CheckoutGateway = stripeClient

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.MovieService = movieService.NewMovieService(c.MovieRepo, c.Cache, c.Storage, c.AsynqClient)
	c.CartService = cartService.NewCartService(c.CartRepo)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.CartRepo, c.MovieRepo, c.UserRepo)
	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo,
		c.OrderRepo,
		c.UserRepo,
		c.CheckoutGateway,
		c.AsynqClient,
		c.Config.Stripe.Currency,
	)

	return nil
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.MovieHandler = movieHandler.NewMovieHandler(c.MovieService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService, c.PaymentService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
}

// ========================================
// SHUTDOWN
// ========================================

// Cleanup releases external connections. Called during graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("failed to close asynq client: %v", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}

	log.Println("container cleanup completed")
}
