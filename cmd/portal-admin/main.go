// portal-admin bootstraps portal accounts: it registers (or refreshes) a
// customer directory entry and creates a login scoped to that customer.
// There is no self-service registration; accounts are provisioned here.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/config"
	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/log"
	"github.com/Harith-design/webportal-sub000/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentApp)
	log.SetDefault(logger)

	var (
		username = flag.String("username", "", "login name for the new account")
		password = flag.String("password", "", "initial password (min 8 characters)")
		role     = flag.String("role", "customer", "account role: customer or admin")
		cardCode = flag.String("cardcode", "", "ERP customer code the account is scoped to")
		name     = flag.String("name", "", "customer display name for the directory")
		currency = flag.String("currency", core.DefaultCurrency, "customer currency code")
	)
	flag.Parse()

	if *username == "" || *password == "" || *cardCode == "" {
		logger.Error("username, password and cardcode are required")
		flag.Usage()
		os.Exit(2)
	}
	if len(*password) < 8 {
		logger.Error("password must be at least 8 characters")
		os.Exit(2)
	}
	if *role != "customer" && *role != "admin" {
		logger.Error("role must be customer or admin", "role", *role)
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH is required")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	displayName := *name
	if displayName == "" {
		displayName = *cardCode
	}
	customer := storage.Customer{
		CardCode: strings.TrimSpace(*cardCode),
		Name:     displayName,
		Currency: strings.ToUpper(*currency),
	}
	if err := repo.UpsertCustomer(ctx, customer); err != nil {
		logger.Error("Failed to register customer", "error", err, "card_code", customer.CardCode)
		os.Exit(1)
	}

	if _, err := repo.GetUserByUsername(ctx, *username); err == nil {
		logger.Error("Username already taken", "username", *username)
		os.Exit(1)
	} else if !errors.Is(err, core.ErrNotFound) {
		logger.Error("Failed checking username", "error", err, "username", *username)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Error("Failed hashing password", "error", err)
		os.Exit(1)
	}

	id, err := repo.CreateUser(ctx, storage.User{
		Username:     strings.TrimSpace(*username),
		PasswordHash: hash,
		Role:         *role,
		CardCode:     customer.CardCode,
	})
	if err != nil {
		logger.Error("Failed creating user", "error", err, "username", *username)
		os.Exit(1)
	}

	logger.Info("Account created",
		"user_id", id,
		"username", *username,
		"role", *role,
		"card_code", customer.CardCode)
}
