// Command seed creates a sample employee with skills.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/goplay/staff-portal/internal/core/service"
	mongodb "github.com/goplay/staff-portal/internal/infrastructure/db/mongo"
	"github.com/goplay/staff-portal/internal/infrastructure/queue"
	"github.com/goplay/staff-portal/internal/infrastructure/security"
	"github.com/goplay/staff-portal/internal/pkg/config"
	"github.com/goplay/staff-portal/pkg/logger"
)

const defaultSeedPassword = "Secret123!"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = defaultSeedPassword
	}

	hasher := security.NewBcryptHasher(cfg.Auth.HashSalt, cfg.Auth.BcryptCost)
	userRepo := mongodb.NewUserRepository(db)
	users := service.NewUserService(userRepo, hasher, queue.NewDispatcher(1, queue.NewLogDeliverer(log), log), log)
	employees := service.NewEmployeeService(
		mongodb.NewEmployeeRepository(db),
		mongodb.NewSkillRepository(db),
		userRepo,
		log,
	)

	employee, err := service.SeedSampleEmployee(ctx, users, employees, service.DefaultSampleEmployee(password), log)
	if err != nil {
		return err
	}
	fmt.Printf("Employee %s is ready with %d skills.\n", employee.Code, len(employee.Skills))
	return nil
}
