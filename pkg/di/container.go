package di

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-api/application/serviceimpl"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/infrastructure/memory"
	"todo-api/infrastructure/messaging"
	"todo-api/infrastructure/mongodb"
	natspkg "todo-api/infrastructure/nats"
	"todo-api/infrastructure/postgres"
	redispkg "todo-api/infrastructure/redis"
	"todo-api/interfaces/api/handlers"
	"todo-api/pkg/config"
	"todo-api/pkg/logger"
	"todo-api/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB        // postgres driver only
	MongoClient    *mongodb.Client // mongo driver only
	RedisClient    *redispkg.Client
	NATSClient     *natspkg.Client
	EventScheduler scheduler.EventScheduler

	// Ports
	TodoEvents    ports.TodoEventPublisherPort
	TodoListCache ports.TodoListCachePort // nil when Redis is not configured

	// Repositories
	TodoRepository repositories.TodoRepository

	// Services
	TodoService        services.TodoService
	StoreHealthService services.StoreHealthService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	logger.Info("Container initialized", "store", c.Config.Store.Driver)
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logCfg := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}
	if err := logger.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Logger initialized", "level", logCfg.Level, "format", logCfg.Format, "output", logCfg.Output)
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initStore(); err != nil {
		return err
	}

	// Redis is optional; without it the list is read straight from the store
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, list cache disabled", "error", err)
		} else {
			c.RedisClient = redisClient
			c.TodoListCache = redispkg.NewTodoListCache(redisClient, c.Config.Redis.TTL)
			logger.Info("Redis list cache enabled", "ttl", c.Config.Redis.TTL.String())
		}
	}

	// NATS is optional too; events go to the no-op publisher when it is absent
	c.TodoEvents = messaging.NewNoopTodoEventPublisher()
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS unavailable, todo events disabled", "error", err)
		} else {
			c.NATSClient = natsClient
			c.TodoEvents = messaging.NewNATSTodoEventPublisher(natsClient.Conn(), c.Config.NATS.SubjectPrefix)
			logger.Info("NATS todo events enabled", "prefix", c.Config.NATS.SubjectPrefix)
		}
	}

	return nil
}

func (c *Container) initStore() error {
	switch c.Config.Store.Driver {
	case config.StoreDriverMemory:
		c.TodoRepository = memory.NewTodoRepository()
		logger.Warn("Using in-memory store, data is lost on restart")

	case config.StoreDriverPostgres:
		db, err := postgres.NewDatabase(postgres.DatabaseConfig{
			Host:     c.Config.Database.Host,
			Port:     c.Config.Database.Port,
			User:     c.Config.Database.User,
			Password: c.Config.Database.Password,
			DBName:   c.Config.Database.DBName,
			SSLMode:  c.Config.Database.SSLMode,
		})
		if err != nil {
			return err
		}
		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		c.DB = db
		c.TodoRepository = postgres.NewTodoRepository(db)
		logger.Info("Postgres store connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	default:
		client, err := mongodb.NewClient(&c.Config.Mongo)
		if err != nil {
			return err
		}
		coll := client.Collection(c.Config.Mongo.Collection)

		ctx, cancel := context.WithTimeout(context.Background(), c.Config.Mongo.ConnectTimeout)
		defer cancel()
		if err := mongodb.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Close(context.Background())
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		c.MongoClient = client
		c.TodoRepository = mongodb.NewTodoRepository(coll)
		logger.Info("MongoDB store connected", "db", c.Config.Mongo.Database, "collection", c.Config.Mongo.Collection)
	}

	return nil
}

func (c *Container) initServices() error {
	if c.TodoListCache != nil {
		c.TodoService = serviceimpl.NewTodoServiceWithCache(c.TodoRepository, c.TodoEvents, c.TodoListCache)
	} else {
		c.TodoService = serviceimpl.NewTodoService(c.TodoRepository, c.TodoEvents)
	}

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	health := serviceimpl.NewStoreHealthService(serviceimpl.StoreHealthConfig{
		Driver:        c.Config.Store.Driver,
		CheckInterval: c.Config.Health.CheckInterval,
	}, c.TodoRepository, c.EventScheduler)

	if err := health.RegisterHealthJob(); err != nil {
		return fmt.Errorf("failed to register store health job: %w", err)
	}
	c.StoreHealthService = health

	// first status before the first tick
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = health.CheckNow(ctx)

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.TodoEvents != nil {
		if err := c.TodoEvents.Close(); err != nil {
			logger.Warn("Failed to close todo event publisher", "error", err)
		}
	}

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.MongoClient.Close(ctx); err != nil {
			logger.Warn("Failed to disconnect MongoDB", "error", err)
		} else {
			logger.Info("MongoDB disconnected")
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := postgres.Close(c.DB); err != nil {
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		TodoService:        c.TodoService,
		StoreHealthService: c.StoreHealthService,
		AppName:            c.Config.App.Name,
	}
}
