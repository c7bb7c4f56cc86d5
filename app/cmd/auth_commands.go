package cmd

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/urfave/cli/v3"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in against the storefront API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c.Root().Writer, func(app *App) error {
				user, err := app.auth.Login(ctx, models.LoginPayload{
					Email:    c.String("email"),
					Password: c.String("password"),
				})
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				_, err = fmt.Fprintf(app.out, "Signed in as %s (%s).\n", user.Email, user.Role)
				return err
			})
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c.Root().Writer, func(app *App) error {
				user, err := app.auth.Register(ctx, models.RegisterPayload{
					Name:     c.String("name"),
					Email:    c.String("email"),
					Password: c.String("password"),
				})
				if err != nil {
					return fmt.Errorf("registration failed: %w", err)
				}
				_, err = fmt.Fprintf(app.out, "Registered and signed in as %s.\n", user.Email)
				return err
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c.Root().Writer, func(app *App) error {
				app.session.Logout(ctx)
				_, err := fmt.Fprintln(app.out, "Signed out.")
				return err
			})
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Print the signed-in user",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c.Root().Writer, func(app *App) error {
				user := app.session.CurrentUser()
				if user == nil {
					_, err := fmt.Fprintln(app.out, "Not signed in.")
					return err
				}
				fmt.Fprintf(app.out, "%s <%s> role=%s id=%s\n", user.Name, user.Email, user.Role, user.ID)
				for _, addr := range user.Addresses {
					fmt.Fprintf(app.out, "  [%s] %s, %s, %s\n", addr.Label, addr.Street, addr.City, addr.Country)
				}
				return nil
			})
		},
	}
}
