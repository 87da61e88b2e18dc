package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"moneymind/internal/demo"
	"moneymind/internal/domain"
	"moneymind/internal/domain/session"
	"moneymind/internal/infrastructure/postgres"
	"moneymind/internal/shared/config"
)

const usage = `MoneyMind Admin CLI - Management commands for the MoneyMind API

Usage:
  admin <command> [options]

Commands:
  migrate       Apply pending database migrations and exit
  seed-demo     Create (or reuse) the demo account and add its sample transactions
  seed-random   Add randomly generated transactions to an existing user

Examples:
  # Apply migrations
  admin migrate

  # Seed the demo account (moneymind@gmail.com / happytransactions)
  admin seed-demo

  # Add 50 random transactions from the last 90 days
  admin seed-random --email=moneymind@gmail.com --count=50

  # Reproducible data over a custom window
  admin seed-random --email=moneymind@gmail.com --count=200 --days=365 --seed=42
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "seed-demo":
		err = runSeedDemo(os.Args[2:])
	case "seed-random":
		err = runSeedRandom(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

// connect loads configuration, opens the database and applies migrations.
func connect(ctx context.Context) (*postgres.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(ctx, cfg.Database.ConnectionString(), cfg.Database.ConnectAttempts)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func parseTimeout(fs *flag.FlagSet, args []string) (context.Context, context.CancelFunc) {
	timeout := fs.Duration("timeout", 5*time.Minute, "Timeout for the operation (e.g., 30s, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return context.WithTimeout(context.Background(), *timeout)
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	ctx, cancel := parseTimeout(fs, args)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Println("Migrations applied")
	return nil
}

func runSeedDemo(args []string) error {
	fs := flag.NewFlagSet("seed-demo", flag.ExitOnError)
	ctx, cancel := parseTimeout(fs, args)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	seeder := demo.NewSeeder(postgres.NewUserRepository(db), postgres.NewTransactionRepository(db))
	u, n, err := seeder.SeedDemo(ctx)
	if err != nil {
		return fmt.Errorf("stopped after %d transactions: %w", n, err)
	}

	log.Printf("Seeded %d demo transactions for %s (user %d)", n, u.Email, u.ID)
	return nil
}

func runSeedRandom(args []string) error {
	fs := flag.NewFlagSet("seed-random", flag.ExitOnError)

	email := fs.String("email", "", "Email of the user to receive the transactions (required)")
	count := fs.Int("count", 50, "Number of transactions to generate")
	days := fs.Int("days", 90, "Spread dates over this many days ending today")
	seed := fs.Int64("seed", 0, "Random seed; 0 picks a random one")

	fs.Usage = func() {
		fmt.Println("Usage: admin seed-random --email=<email> [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	ctx, cancel := parseTimeout(fs, args)
	defer cancel()

	if *email == "" {
		fmt.Println("Error: --email is required")
		fs.Usage()
		os.Exit(1)
	}
	if *count < 1 || *days < 1 {
		fmt.Println("Error: --count and --days must be positive")
		os.Exit(1)
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	users := postgres.NewUserRepository(db)
	u, err := users.GetByEmail(ctx, session.NormalizeEmail(*email))
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no user with email %s", *email)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	params := demo.RandomTransactions(gofakeit.New(*seed), *count, time.Now().UTC(), time.Duration(*days)*24*time.Hour)

	seeder := demo.NewSeeder(users, postgres.NewTransactionRepository(db))
	n, err := seeder.Append(ctx, u.ID, params)
	if err != nil {
		return fmt.Errorf("stopped after %d transactions: %w", n, err)
	}

	log.Printf("Added %d random transactions for %s (user %d)", n, u.Email, u.ID)
	return nil
}
