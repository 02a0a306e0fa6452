// Command seed writes a session slot to Redis for a seeded (or new) user and
// prints a bearer token, so staff dashboards can be exercised without the
// login form.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/warteg-pro/api/internal/auth"
	"github.com/warteg-pro/api/internal/config"
	"github.com/warteg-pro/api/internal/seed"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/session"
	"github.com/warteg-pro/api/internal/state"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "User email address")
	name := flag.String("name", "", "User name (new users only)")
	role := flag.String("role", "", "CUSTOMER, KITCHEN or ADMIN (new users only)")
	configPath := flag.String("config", "configs/base.yaml", "Path to YAML config (optional)")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}
	if *role == "" {
		*role = os.Getenv("SEED_ROLE")
	}

	// Fall back to the seeded admin
	if *email == "" {
		*email = "admin@warteg.pro"
	}

	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	if cfg.Session.RedisAddr == "" {
		log.Fatal("session.redis_addr is not set; in-memory sessions cannot be seeded from another process")
	}

	ctx := context.Background()
	rdb, err := session.NewRedisClient(ctx, cfg.Session.RedisAddr)
	if err != nil {
		log.Fatalf("Unable to connect to redis: %v", err)
	}
	defer rdb.Close()
	log.Println("Connected to redis")

	app := state.New(seed.Data(time.Now()))
	sessions := service.NewSessionService(app, session.NewRedisStore(rdb, cfg.Session.TTL))

	user, err := sessions.Login(ctx, service.LoginRequest{Email: *email, Name: *name, Role: *role})
	if err != nil {
		log.Fatalf("Failed to write session: %v", err)
	}

	token, err := auth.GenerateToken(cfg.Auth.JWTSecret, user, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	log.Printf("Session written for %s (ID: %s, role: %s)", user.Email, user.ID, user.Role)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{"access_token": token, "user": user}); err != nil {
		log.Fatalf("Failed to print token: %v", err)
	}
}
