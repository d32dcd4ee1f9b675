// Command admin bootstraps accounts and catalog data directly against the
// database, for deployments where public admin signup is turned off.
//
//	admin --email boss@example.com --password s3cret! --name Boss
//	admin --promote --email someone@example.com
//	admin --seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/core/config"
	"sweet-shop/internal/core/database"
	"sweet-shop/internal/core/logger"
	"sweet-shop/internal/domain"
	"sweet-shop/internal/repo"
	"sweet-shop/internal/service"
)

type sample struct {
	name, category, price, desc string
	qty                         int
}

var samples = []sample{
	{"Chocolate Bar", "Chocolate", "2.50", "Rich milk chocolate", 50},
	{"Dark Truffle", "Chocolate", "4.75", "70% cocoa ganache", 20},
	{"Gummy Bears", "Gummies", "1.99", "Assorted fruit flavours", 100},
	{"Sour Worms", "Gummies", "2.25", "Tangy and chewy", 80},
	{"Lollipop", "Hard Candy", "0.75", "Strawberry swirl", 150},
	{"Peppermint Drops", "Hard Candy", "1.25", "Cool mint", 60},
	{"Salted Caramel", "Caramel", "3.10", "Soft caramel squares", 40},
}

func main() {
	var (
		cfgPath  = flag.StringP("config", "c", "", "config file (defaults to CONFIG_PATH, then ./configs/config.local.yaml)")
		email    = flag.StringP("email", "e", "", "admin email")
		password = flag.StringP("password", "p", "", "admin password (or ADMIN_PASSWORD)")
		name     = flag.StringP("name", "n", "Administrator", "admin display name")
		promote  = flag.Bool("promote", false, "promote an existing user to admin instead of creating one")
		seed     = flag.Bool("seed", false, "insert sample sweets")
		timeout  = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	_ = godotenv.Load()
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *email == "" && !*seed {
		fmt.Fprintln(os.Stderr, "admin: --email or --seed is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(logger.Options{Level: cfg.Log.Level})
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
		Log:      log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(db); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	users := repo.NewUserRepo(db)
	switch {
	case *email != "" && *promote:
		if err := promoteUser(ctx, users, *email); err != nil {
			log.Fatal("promote failed", zap.String("email", *email), zap.Error(err))
		}
		log.Info("user promoted to admin", zap.String("email", *email))
	case *email != "":
		jwter, err := auth.NewJWTer(auth.Options{Secret: cfg.JWT.Secret, Env: cfg.App.Env})
		if err != nil {
			log.Fatal("jwt", zap.Error(err))
		}
		svc := service.NewAuthService(users, jwter, true, log)
		u, err := svc.EnsureAdmin(ctx, *email, *password, *name)
		if err != nil {
			log.Fatal("create admin failed", zap.String("email", *email), zap.Error(err))
		}
		log.Info("admin ready", zap.String("id", u.ID), zap.String("email", u.Email))
	}

	if *seed {
		n, err := seedSweets(ctx, service.NewSweetService(repo.NewSweetRepo(db), nil, 0, log))
		if err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("catalog seeded", zap.Int("created", n))
	}
}

func promoteUser(ctx context.Context, users *repo.UserRepo, email string) error {
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("no user with email %s: %w", email, domain.ErrNotFound)
	}
	if u.Role == domain.RoleAdmin {
		return nil
	}
	return users.UpdateRole(ctx, u.ID, domain.RoleAdmin)
}

// seedSweets skips names already in the catalog so it can be rerun.
func seedSweets(ctx context.Context, svc *service.SweetService) (int, error) {
	existing, err := svc.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[s.Name] = true
	}

	created := 0
	for _, s := range samples {
		if have[s.name] {
			continue
		}
		price := decimal.RequireFromString(s.price)
		qty, desc := s.qty, s.desc
		if _, err := svc.Create(ctx, service.CreateSweetInput{
			Name:        s.name,
			Category:    s.category,
			Price:       &price,
			Quantity:    &qty,
			Description: &desc,
		}); err != nil {
			return created, fmt.Errorf("seed %q: %w", s.name, err)
		}
		created++
	}
	return created, nil
}
