package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/youssefMoMo/youssef-portfolio/internal/api"
	"github.com/youssefMoMo/youssef-portfolio/internal/auth"
	"github.com/youssefMoMo/youssef-portfolio/internal/config"
	"github.com/youssefMoMo/youssef-portfolio/internal/ratelimit"
	"github.com/youssefMoMo/youssef-portfolio/internal/repository"
	"github.com/youssefMoMo/youssef-portfolio/internal/service"
	"github.com/youssefMoMo/youssef-portfolio/internal/upstream"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Server  *api.Server
	Limiter ratelimit.Limiter

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db

	limiter, rdb, err := newLimiter(cfg)
	if err != nil {
		return nil, err
	}
	container.Limiter = limiter
	container.redis = rdb

	gamesService := service.NewGamesService(upstream.NewGameClient(cfg.Upstream))
	pricingRepo := repository.NewPricingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	authManager := auth.NewManager(cfg.Admin)

	container.Server = api.NewServer(
		cfg.Server,
		gamesService,
		pricingRepo,
		reviewRepo,
		limiter,
		authManager,
	)

	return container, nil
}

func newLimiter(cfg *config.Config) (ratelimit.Limiter, *redis.Client, error) {
	if cfg.RateLimit.Backend != "redis" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Connected to Redis successfully")

	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()), rdb, nil
}

// Run serves HTTP until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if mem, ok := c.Limiter.(*ratelimit.MemoryLimiter); ok {
		mem.StartJanitor(ctx, c.Config.RateLimit.Window())
	}

	g.Go(func() error {
		return c.Server.Run(ctx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
