package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/urfave/cli/v3"
)

var errEmptyCart = errors.New("cart is empty")

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "Turn the current cart into an order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "payment", Usage: "payment method", Value: "COD"},
			&cli.StringFlag{Name: "label", Usage: "address label"},
			&cli.StringFlag{Name: "street", Usage: "street"},
			&cli.StringFlag{Name: "city", Usage: "city"},
			&cli.StringFlag{Name: "state", Usage: "state"},
			&cli.StringFlag{Name: "postal-code", Usage: "postal code"},
			&cli.StringFlag{Name: "country", Usage: "country"},
			&cli.BoolFlag{Name: "default", Usage: "mark the address as default"},
			&cli.BoolFlag{Name: "clear", Usage: "empty the cart after the order is placed"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, c.Root().Writer, func(app *App) error {
				items := app.cart.Snapshot()
				if len(items) == 0 {
					return errEmptyCart
				}

				req := models.OrderCreateRequest{
					PaymentMethod:   c.String("payment"),
					ShippingAddress: addressFromFlags(c),
				}
				order, err := app.orders.CreateOrder(ctx, items, req)
				if errors.Is(err, services.ErrUnauthenticated) {
					return fmt.Errorf("%w: run `login` first", err)
				}
				if err != nil {
					return err
				}

				if c.Bool("clear") {
					app.cart.Clear(ctx)
				}
				fmt.Fprintf(app.out, "Order %s placed.\n", order.ID)
				app.printOrder(*order)
				return nil
			})
		},
	}
}

// addressFromFlags returns nil when no address flag was given, so the order
// gets the default address.
func addressFromFlags(c *cli.Command) *models.Address {
	names := []string{"label", "street", "city", "state", "postal-code", "country", "default"}
	set := false
	for _, name := range names {
		if c.IsSet(name) {
			set = true
			break
		}
	}
	if !set {
		return nil
	}
	return &models.Address{
		Label:      c.String("label"),
		Street:     c.String("street"),
		City:       c.String("city"),
		State:      c.String("state"),
		PostalCode: c.String("postal-code"),
		Country:    c.String("country"),
		IsDefault:  c.Bool("default"),
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "Inspect orders of the signed-in user",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List orders, newest first",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						orders := app.orders.UserOrders()
						if len(orders) == 0 {
							_, err := fmt.Fprintln(app.out, "No orders.")
							return err
						}
						for _, order := range orders {
							fmt.Fprintf(app.out, "%s  %s  %-8s %12s  %d items\n",
								order.ID, order.CreatedAt.Format("2006-01-02 15:04"), order.Status,
								app.money.Format(order.TotalAmount), len(order.Items))
						}
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one order",
				ArgsUsage: "<order-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: orders show <order-id>")
					}
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						order, ok := app.orders.OrderByID(c.Args().First())
						if !ok {
							return fmt.Errorf("order %s not found", c.Args().First())
						}
						app.printOrder(*order)
						return nil
					})
				},
			},
		},
	}
}

func (a *App) printOrder(order models.Order) {
	fmt.Fprintf(a.out, "Order   %s (%s)\n", order.ID, order.Status)
	fmt.Fprintf(a.out, "Placed  %s\n", order.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(a.out, "Payment %s\n", order.PaymentMethod)
	addr := order.ShippingAddress
	fmt.Fprintf(a.out, "Ship to %s: %s, %s, %s %s, %s\n", addr.Label, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country)
	for _, item := range order.Items {
		fmt.Fprintf(a.out, "  %-14s %-28s %4d x %12s\n", item.ProductID, item.Name, item.Quantity, a.money.Format(item.Price))
	}
	fmt.Fprintf(a.out, "Total   %s\n", a.money.Format(order.TotalAmount))
}
