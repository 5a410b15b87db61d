package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"waitfaster_server/api"
	"waitfaster_server/config"
	"waitfaster_server/database"
	"waitfaster_server/lib"
	"waitfaster_server/services"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var logger *gecho.Logger
var cfg *structs.Config

var (
	seedFile   = pflag.String("seed", "", "YAML file with users and menu items to load before serving")
	migrate    = pflag.Bool("migrate", true, "create missing tables on startup")
	issueToken = pflag.String("issue-token", "", "print an access token for the named user and exit")
)

// init function to load environment variables and initialize logger
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Fatal("Server stopped with error", gecho.Field("error", err))
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context) error {
	if err := database.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseInstance()
	db := database.GetInstance()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	redisClient := connectRedis(ctx)

	sm, err := services.NewServiceManager(logger, cfg, db, redisClient)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return err
	}
	if sm.CacheService != nil {
		defer sm.CacheService.Close()
	}
	defer sm.NotificationService.Close()

	if *seedFile != "" {
		if err := applySeed(ctx, sm.SeedService, *seedFile); err != nil {
			return err
		}
	}

	if *issueToken != "" {
		return printToken(ctx, sm.IdentityService, *issueToken)
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	server.RegisterOnShutdown(sm.NotificationService.Hub().Close)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sm.NotificationService.Run(gctx)
	})

	g.Go(func() error {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// connectRedis returns nil when Redis is not configured or not reachable,
// in which case caching and rate limiting are off.
func connectRedis(ctx context.Context) *redis.Client {
	if cfg.Cache.Address == "" {
		return nil
	}

	client := services.NewRedisClient(cfg.Cache)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Cache.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, running without cache",
			gecho.Field("address", cfg.Cache.Address),
			gecho.Field("error", err),
		)
		client.Close()
		return nil
	}

	logger.Info("Connected to Redis", gecho.Field("address", cfg.Cache.Address))
	return client
}

func applySeed(ctx context.Context, seedService *services.SeedService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := services.ParseSeed(f)
	if err != nil {
		return err
	}
	return seedService.Apply(ctx, seed)
}

func printToken(ctx context.Context, identityService *services.IdentityService, username string) error {
	user, err := identityService.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", username, err)
	}

	token, err := lib.GenerateToken(user.Id, string(user.Role), cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Println(token)
	return nil
}
