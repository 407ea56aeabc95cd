package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/mkagd/technik-sub005/internal/adapters/cache"
	"github.com/mkagd/technik-sub005/internal/adapters/distance"
	"github.com/mkagd/technik-sub005/internal/adapters/repositories"
	"github.com/mkagd/technik-sub005/internal/api"
	"github.com/mkagd/technik-sub005/internal/config"
	"github.com/mkagd/technik-sub005/internal/geo"
	"github.com/mkagd/technik-sub005/internal/platform/db"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, OSRM, optionally Redis and
// Postgres) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/dispatch.json")
	port := config.Get("PORT", "8080")
	osrmURL := config.Get("OSRM_BASE_URL", distance.DefaultOSRMBaseURL)
	redisAddr := config.Get("REDIS_ADDR", "")
	databaseURL := config.Get("DATABASE_URL", "")
	speedKmh := config.GetFloat("AVERAGE_SPEED_KMH", geo.DefaultAverageSpeedKmh)
	// -1 means "unset"; an explicit 0 selects back-to-back slots.
	bufferMin := config.GetInt("SLOT_BUFFER_MIN", -1)

	store, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(store, seedPath); err != nil {
		log.Fatal(err)
	}

	// The routing provider caches pair results and degrades to
	// straight-line estimates whenever the external call fails, so a dead
	// OSRM endpoint never takes scheduling down with it. With DATABASE_URL
	// set, the cache moves to Postgres and is shared between instances.
	var distanceCache cache.DistanceCache = cache.NewSqliteDistanceCache(store)
	if databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		distanceCache = cache.NewSQLDistanceCache(pg)
		log.Println("Using shared Postgres distance cache")
	}

	osrm := distance.NewOSRMProvider(osrmURL, distanceCache)
	provider := distance.NewFallbackProvider(osrm, distance.DefaultProviderTimeout, speedKmh)

	tasks := repositories.NewSqliteTaskRepository(store)
	technicians := repositories.NewSqliteTechnicianRepository(store)

	// Demand counts come from Redis when configured, otherwise they are
	// derived from the open-task table on each quote.
	var demand ports.DemandCounter = repositories.NewSqliteDemandCounter(store)
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		demand = cache.NewRedisDemandCounter(client)
		log.Printf("Using Redis demand counters addr=%s", redisAddr)
	}

	slotCfg := services.DefaultSlotConfig()
	if bufferMin >= 0 {
		slotCfg.BufferMinutes = bufferMin
	}

	router := api.NewRouter(api.RouterDeps{
		Tasks:       tasks,
		Technicians: technicians,
		Demand:      demand,
		Provider:    provider,
		SlotConfig:  slotCfg,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
