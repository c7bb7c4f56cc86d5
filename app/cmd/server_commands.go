package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/db/seeders"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/models/migrations"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/routes"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the reference cart API server",
		Action: func(ctx context.Context, c *cli.Command) error {
			env, base, err := loadBase()
			if err != nil {
				return err
			}
			logger := base.Sugar()
			defer logger.Sync()

			keys, err := configs.LoadSessionKeys(env)
			if err != nil {
				return fmt.Errorf("%w (run generate-keys)", err)
			}

			storage, err := configs.OpenStorage(ctx, env, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			router := routes.NewRouter(routes.Dependencies{
				Store:    storage.Store,
				Users:    storage.Users,
				Tokens:   services.NewTokenService(keys.JWTSecret, services.DefaultTokenTTL),
				Sessions: sessions.NewCookieSessionStore(env.AppEnv == "production", keys.AuthKey, keys.EncKey),
				Logger:   logger,
			})

			server := &http.Server{
				Addr:              env.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Server starting on %s (storage=%s)", server.Addr, env.StorageDriver)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
				logger.Info("Shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run database migration",
		Action: func(ctx context.Context, c *cli.Command) error {
			env, base, err := loadBase()
			if err != nil {
				return err
			}
			logger := base.Sugar()
			defer logger.Sync()

			db, err := configs.OpenConnection(env, logger)
			if err != nil {
				return err
			}
			if err := migrations.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("Migration complete")
			return nil
		},
	}
}

func generateKeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-keys",
		Usage: "Generate cookie session keys and a JWT secret for .env",
		Action: func(ctx context.Context, c *cli.Command) error {
			return configs.GenerateAndPrintSessionKeys(c.Root().Writer)
		},
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Create an admin account in the server's user store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			env, base, err := loadBase()
			if err != nil {
				return err
			}
			logger := base.Sugar()
			defer logger.Sync()

			storage, err := configs.OpenStorage(ctx, env, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			user := &models.User{
				Name:     c.String("name"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Role:     models.RoleAdmin,
			}
			if err := storage.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			_, err = fmt.Fprintf(c.Root().Writer, "Admin %s created with id %s.\n", user.Email, user.ID)
			return err
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create demo customers with mirrored carts in the server's store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "users", Usage: "number of customers", Value: "5"},
			&cli.StringFlag{Name: "password", Usage: "password shared by the demo customers", Value: "password123"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			count, err := strconv.Atoi(c.String("users"))
			if err != nil || count < 1 {
				return fmt.Errorf("--users must be a positive number")
			}

			env, base, err := loadBase()
			if err != nil {
				return err
			}
			logger := base.Sugar()
			defer logger.Sync()

			storage, err := configs.OpenStorage(ctx, env, logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			seeded, err := seeders.DBSeed(ctx, storage.Users, repositories.NewRemoteCartRepository(storage.Store), count, c.String("password"), logger)
			for _, s := range seeded {
				fmt.Fprintf(c.Root().Writer, "%s  %s  %d items\n", s.User.ID, s.User.Email, s.Cart.Summary.ItemCount)
			}
			return err
		},
	}
}
