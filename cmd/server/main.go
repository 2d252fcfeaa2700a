package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"touring-route-service/internal/adapters/cache"
	"touring-route-service/internal/adapters/directions"
	"touring-route-service/internal/adapters/repositories"
	"touring-route-service/internal/api"
	"touring-route-service/internal/config"
	"touring-route-service/internal/platform/auth"
	"touring-route-service/internal/platform/db"
	"touring-route-service/internal/ports"
	"touring-route-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, SQLite, ORS, Google Places)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		pg, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitSchema(ctx, pg); err != nil {
			log.Fatal(err)
		}
	}

	var (
		tourings ports.TouringRepository
		shared   ports.SharedTouringRepository
	)
	if pg != nil {
		tourings = repositories.NewSQLTouringRepository(pg)
		shared = repositories.NewSQLSharedTouringRepository(pg)
	} else {
		log.Println("DATABASE_URL not set: tourings are kept in memory")
		tourings = repositories.NewMemoryTouringRepository()
		shared = repositories.NewMemorySharedTouringRepository()
	}

	directionsCache, nameCache, closeCaches, err := buildCaches(ctx, cfg, pg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCaches()

	provider, err := directions.NewORSDirectionsProvider(cfg.ORSAPIKey)
	if err != nil {
		log.Fatal(err)
	}

	var lookup ports.PlaceLookup
	if cfg.GoogleMapsAPIKey != "" {
		g, err := directions.NewGooglePlaceLookup(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatal(err)
		}
		lookup = g
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set: spot display names are unavailable")
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}

	calc := services.NewRouteCalculator(provider, directionsCache)
	router := api.NewRouter(api.Dependencies{
		Tourings:   services.NewTouringService(tourings, shared, calc),
		Shared:     services.NewSharedService(tourings, shared),
		Places:     services.NewPlaceService(lookup, provider, nameCache),
		Calculator: calc,
		Verifier:   verifier,
	})

	// Timeouts are tuned for cold-cache calculations (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s directions_cache=%s", cfg.Port, cfg.DirectionsCache)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// buildCaches selects the directions cache backend. Persistent backends sit
// behind a memory layer.
func buildCaches(
	ctx context.Context,
	cfg *config.Config,
	pg *sql.DB,
) (ports.DirectionsCache, ports.DisplayNameCache, func(), error) {
	memory := cache.NewMemoryDirectionsCache(cfg.CacheMaxEntries)
	noop := func() {}

	switch cfg.DirectionsCache {
	case config.CacheRedis:
		redisCache, err := cache.NewRedisDirectionsCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return nil, nil, noop, err
		}
		closeFn := func() { _ = redisCache.Close() }
		return cache.NewLayeredDirectionsCache(memory, redisCache), nameCacheFor(pg, cfg), closeFn, nil

	case config.CachePostgres:
		return cache.NewLayeredDirectionsCache(memory, cache.NewSQLDirectionsCache(pg)),
			cache.NewSQLDisplayNameCache(pg), noop, nil

	case config.CacheSqlite:
		lite, err := openSqlite(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, nil, noop, err
		}
		closeFn := func() { _ = lite.Close() }
		return cache.NewLayeredDirectionsCache(memory, cache.NewSqliteDirectionsCache(lite)),
			cache.NewSqliteDisplayNameCache(lite), closeFn, nil
	}

	return memory, nameCacheFor(pg, cfg), noop, nil
}

func nameCacheFor(pg *sql.DB, cfg *config.Config) ports.DisplayNameCache {
	if pg != nil {
		return cache.NewSQLDisplayNameCache(pg)
	}
	return cache.NewMemoryDisplayNameCache(cfg.CacheTTL)
}

func openSqlite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("openSqlite: create directory for %q: %w", path, err)
	}

	lite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open sqlite database %q: %w", path, err)
	}

	if err := lite.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("openSqlite: verify sqlite connection to %q: %w", path, err)
	}

	if err := cache.InitSqliteSchema(ctx, lite); err != nil {
		return nil, fmt.Errorf("openSqlite: %w", err)
	}

	return lite, nil
}
