package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bistrosoft/orders/internal/domain"
	"github.com/bistrosoft/orders/internal/service/auth"
	"github.com/bistrosoft/orders/internal/storage/postgres"
)

const commandTimeout = 30 * time.Second

func main() {
	var (
		direction string
		steps     int
		dsn       string
		seed      bool
	)

	flag.StringVar(&direction, "direction", "up", "migration direction: up|down|status")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: ORDERS_POSTGRES_DSN)")
	flag.BoolVar(&seed, "seed", false, "insert demo catalog data after migrating up")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fail("load .env file: %v", err)
	}

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("ORDERS_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		if err := store.MigrateUp(ctx, steps); err != nil {
			fail("migrate up failed: %v", err)
		}
		printStatus(ctx, store, "migrate up ok")
		if seed {
			if err := seedDemoData(ctx, store); err != nil {
				fail("seed failed: %v", err)
			}
			fmt.Println("seed ok")
		}
	case "down":
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			fail("migrate down failed: %v", err)
		}
		printStatus(ctx, store, "migrate down ok")
	case "status":
		printStatus(ctx, store, "migration status")
	default:
		fail("unsupported direction: %s (use up|down|status)", direction)
	}
}

// seedDemoData наполняет каталог демонстрационными товарами и, если задан
// SEED_ADMIN_PASSWORD, создаёт администратора SEED_ADMIN_EMAIL.
func seedDemoData(ctx context.Context, store *postgres.Store) error {
	repos := store.Repositories()

	existing, err := repos.Products.List(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Name] = true
	}

	demo := []struct {
		name  string
		price float64
		stock int
	}{
		{"Margherita Pizza", 9.50, 40},
		{"Quattro Formaggi Pizza", 12.00, 25},
		{"Caesar Salad", 7.20, 30},
		{"Tiramisu", 5.80, 20},
		{"Espresso", 2.10, 100},
	}

	for _, d := range demo {
		if known[d.name] {
			continue
		}
		product, err := domain.NewProduct(d.name, d.price, d.stock)
		if err != nil {
			return err
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		return nil
	}
	emailRaw := os.Getenv("SEED_ADMIN_EMAIL")
	if emailRaw == "" {
		emailRaw = "admin@bistrosoft.local"
	}
	email, err := domain.NewEmail(emailRaw)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := domain.NewUser(email, hash)
	if err != nil {
		return err
	}
	if err := repos.Users.Create(ctx, user); err != nil && !errors.Is(err, domain.ErrValidation) {
		return err
	}
	return nil
}

func printStatus(ctx context.Context, store *postgres.Store, prefix string) {
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		fail("migration status failed: %v", err)
	}
	fmt.Printf("%s: version=%d applied=%d\n", prefix, version, count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
