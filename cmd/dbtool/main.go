package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"touring-route-service/internal/adapters/repositories"
	"touring-route-service/internal/config"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/auth"
	"touring-route-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool initializes the Postgres schema and optionally seeds demo tourings
// for a user, printing a bearer token for that user.
func main() {
	seed := flag.Bool("seed", false, "seed demo tourings from SEED_PATH")
	userID := flag.String("user", "demo-user", "owner of seeded tourings")
	email := flag.String("email", "demo@example.com", "e-mail of the seeded user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	seedPath := ""
	if *seed {
		seedPath = config.Get("SEED_PATH", "data/seeds/tourings.json")
	}
	if err := initAndSeed(ctx, conn, seedPath, *userID); err != nil {
		log.Fatal(err)
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" && *seed {
		verifier, err := auth.NewVerifier(secret)
		if err != nil {
			log.Fatal(err)
		}
		token, err := verifier.Issue(domain.User{ID: *userID, Email: *email}, 24*time.Hour)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Bearer token for %s: %s", *userID, token)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath, userID string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Println("Seeding database...")
	repo := repositories.NewSQLTouringRepository(conn)
	if err := repositories.SeedFromJSON(ctx, repo, userID, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
