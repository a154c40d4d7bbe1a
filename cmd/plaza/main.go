// Command plaza is the operator CLI for the board store: seeding,
// backup/restore, stats, and reset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"plaza/internal/config"
	"plaza/internal/observability"
	"plaza/internal/seed"
	"plaza/internal/service"
	"plaza/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := observability.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	seeder := seed.NewSeeder(st, cfg, logger)
	admin, err := seeder.EnsureSuperAdmin(ctx)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	// The CLI operates with the super-admin identity.
	sess := service.NewSession()
	adminSvc := service.NewAdminService(st, logger)
	authSvc := service.NewAuthService(st, cfg.PasswordMinLength, logger)
	if _, err := authSvc.Login(ctx, sess, admin.ID, cfg.AdminPassword); err != nil {
		logger.Error("operator login failed", "error", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		runSeed(ctx, seeder, os.Args[2:], logger)

	case "backup":
		runBackup(ctx, adminSvc, sess, os.Args[2:], logger)

	case "restore":
		if len(os.Args) < 3 {
			fmt.Println("Usage: plaza restore <backup.json>")
			os.Exit(1)
		}
		runRestore(ctx, adminSvc, sess, os.Args[2], logger)

	case "stats":
		runStats(ctx, adminSvc, sess, logger)

	case "reset":
		if err := adminSvc.Reset(ctx, sess); err != nil {
			logger.Error("reset failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("store reset")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  plaza seed [-users N] [-posts N] [-comments N]  - bootstrap and seed demo data")
	fmt.Println("  plaza backup [-o file]                          - export the store as JSON")
	fmt.Println("  plaza restore <backup.json>                     - overwrite the store from a backup")
	fmt.Println("  plaza stats                                     - print board totals")
	fmt.Println("  plaza reset                                     - drop every collection")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		return store.OpenSQLite(cfg.SQLitePath, logger)
	case config.DriverPostgres:
		return store.OpenPostgres(cfg.PostgresDSN(), logger)
	case config.DriverRedis:
		return store.OpenRedis(ctx, cfg.RedisURL, cfg.StoreNamespace, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func runSeed(ctx context.Context, seeder *seed.Seeder, args []string, logger *slog.Logger) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	numUsers := fs.Int("users", 20, "Number of demo users to create")
	numPosts := fs.Int("posts", 100, "Number of demo posts to create")
	numComments := fs.Int("comments", 200, "Number of demo comments to create")
	fs.Parse(args)

	if err := seeder.Bootstrap(ctx); err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	err := seeder.Demo(ctx, seed.DemoOptions{
		Users:    *numUsers,
		Posts:    *numPosts,
		Comments: *numComments,
	})
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d users, %d posts, %d comments\n", *numUsers, *numPosts, *numComments)
}

func runBackup(ctx context.Context, adminSvc *service.AdminService, sess *service.Session, args []string, logger *slog.Logger) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	raw, err := adminSvc.Backup(ctx, sess)
	if err != nil {
		logger.Error("backup failed", "error", err)
		os.Exit(1)
	}
	if *out == "" {
		fmt.Println(string(raw))
		return
	}
	if err := os.WriteFile(*out, raw, 0o600); err != nil {
		logger.Error("failed to write backup file", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("backup written to %s\n", *out)
}

func runRestore(ctx context.Context, adminSvc *service.AdminService, sess *service.Session, path string, logger *slog.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read backup file", "path", path, "error", err)
		os.Exit(1)
	}
	if err := adminSvc.Restore(ctx, sess, raw); err != nil {
		logger.Error("restore failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("store restored")
}

func runStats(ctx context.Context, adminSvc *service.AdminService, sess *service.Session, logger *slog.Logger) {
	stats, err := adminSvc.DashboardStats(ctx, sess)
	if err != nil {
		logger.Error("stats failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("users:     %d (%d active)\n", stats.TotalUsers, stats.ActiveUsers)
	fmt.Printf("galleries: %d\n", stats.TotalGalleries)
	fmt.Printf("posts:     %d (%d today)\n", stats.TotalPosts, stats.TodayPosts)
	fmt.Printf("comments:  %d\n", stats.TotalComments)
}
