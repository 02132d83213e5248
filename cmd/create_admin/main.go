package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/crestlinehq/crestline/internal/api"
	"github.com/crestlinehq/crestline/internal/config"
	dbstore "github.com/crestlinehq/crestline/internal/db"
)

// Seeds the admin principal. Registration never grants the admin flag, so a
// fresh deployment runs this once before anyone can reach the form builder.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.AdminPassword == "" {
		log.Fatal("CRESTLINE_ADMIN_PASSWORD must be set")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("create db dir: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(cfg.Database.Path))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = sqliteDB.Close() }()

	if err := dbstore.RunMigrations(sqliteDB, cfg.Database.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	store, err := dbstore.NewStore(sqliteDB)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	if existing := store.FindUserByEmail(cfg.Auth.AdminEmail); existing != nil {
		fmt.Println("Admin user already exists!")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	store.AddUser(&api.User{
		ID:        "u" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7],
		Email:     cfg.Auth.AdminEmail,
		Name:      "Site Administrator",
		PassHash:  hash,
		Admin:     true,
		CreatedAt: time.Now().UTC(),
	})

	fmt.Println("Admin user created successfully!")
	fmt.Printf("Email: %s\n", cfg.Auth.AdminEmail)
	fmt.Println("Please rotate the password after first login!")
}
