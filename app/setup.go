package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilchouksey/skills-lab/api"
	"github.com/sahilchouksey/skills-lab/config"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/router"
	"github.com/sahilchouksey/skills-lab/services/cron"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/cache"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
)

// Bootstrap loads configuration, the logger and the migrated database.
// The caller owns the returned store and logger.
func Bootstrap() (*config.EnvironmentVariable, *database.GORMStore, *logger.Logger, error) {
	if err := config.LoadENV(); err != nil {
		return nil, nil, nil, err
	}

	env, err := config.Get()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(env.GO_ENV)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := database.StartGORM(env, log)
	if err != nil {
		log.Error("check whether PostgreSQL is running (make docker-up or make db-up)")
		return nil, nil, nil, err
	}

	if err := store.Init(); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	promoted, err := database.NewSeeder(store.DB(), log).SeedAdmins(env.ADMIN_EMAILS)
	if err != nil {
		log.Warn("failed to seed admins", "error", err)
	} else if promoted > 0 {
		log.Info("promoted configured admins", "count", promoted)
	}

	return env, store, log, nil
}

// ConnectRedis returns nil when Redis is unreachable; callers degrade to
// uncached news and no sign-in throttling
func ConnectRedis(env *config.EnvironmentVariable, log *logger.Logger) *cache.RedisCache {
	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Warn("redis unavailable, news cache and sign-in throttling disabled", "error", err)
		return nil
	}
	return redisCache
}

func SetupAndRunServer() error {
	env, store, log, err := Bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	redisCache := ConnectRedis(env, log)
	deps, err := NewDependencies(env, store, redisCache, log)
	if err != nil {
		store.Close()
		return err
	}

	// Cron jobs (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.DB(), log)
		cronManager.RegisterNewsPrefetch(deps.News)
		cronManager.RegisterTokenCleanup(auth.NewBlacklistService(store.DB()))
		if err := cronManager.Start(); err != nil {
			// the API is still useful without scheduled jobs
			log.Warn("failed to start cron jobs", "error", err)
			cronManager = nil
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), log)
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	})

	router.SetupRoutes(app, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}()

	return server.Run()
}
