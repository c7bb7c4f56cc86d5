package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Manage the local cart",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add one unit of a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "product id", Required: true},
					&cli.StringFlag{Name: "name", Usage: "display name"},
					&cli.StringFlag{Name: "price", Usage: "unit price", Value: "0"},
					&cli.StringFlag{Name: "discount", Usage: "discount percent", Value: "0"},
					&cli.StringFlag{Name: "image", Usage: "image reference"},
					&cli.StringFlag{Name: "category", Usage: "product category"},
					&cli.StringFlag{Name: "description", Usage: "product description"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					product, err := productFromFlags(c)
					if err != nil {
						return err
					}
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						app.cart.AddItem(ctx, product)
						return app.printCart()
					})
				},
			},
			{
				Name:      "update",
				Usage:     "Set the quantity of a cart item",
				ArgsUsage: "<product-id> <quantity>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("usage: cart update <product-id> <quantity>")
					}
					quantity, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("quantity must be a number: %w", err)
					}
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						app.cart.UpdateQuantity(ctx, c.Args().First(), quantity)
						return app.printCart()
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove an item from the cart",
				ArgsUsage: "<product-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: cart remove <product-id>")
					}
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						app.cart.RemoveItem(ctx, c.Args().First())
						return app.printCart()
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Empty the cart",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						app.cart.Clear(ctx)
						return app.printCart()
					})
				},
			},
			{
				Name:  "show",
				Usage: "Print the cart and its pricing summary",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c.Root().Writer, func(app *App) error {
						return app.printCart()
					})
				},
			},
		},
	}
}

func productFromFlags(c *cli.Command) (models.ProductData, error) {
	price, err := decimal.NewFromString(c.String("price"))
	if err != nil {
		return models.ProductData{}, fmt.Errorf("invalid price %q: %w", c.String("price"), err)
	}
	discount, err := decimal.NewFromString(c.String("discount"))
	if err != nil {
		return models.ProductData{}, fmt.Errorf("invalid discount %q: %w", c.String("discount"), err)
	}

	product := models.ProductData{
		ID:          strings.TrimSpace(c.String("id")),
		Name:        c.String("name"),
		Description: c.String("description"),
		Category:    c.String("category"),
		Price:       price,
		Discount:    discount,
	}
	if image := c.String("image"); image != "" {
		product.Images = []string{image}
	}
	return product, nil
}

func (a *App) printCart() error {
	items := a.cart.Snapshot()
	if len(items) == 0 {
		_, err := fmt.Fprintln(a.out, "Cart is empty.")
		return err
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%-14s %-28s %4d x %12s = %12s\n",
			item.ProductID, item.Name, item.Quantity, a.money.Format(item.Price), a.money.Format(item.LineTotal()))
	}

	summary := a.cart.Summary()
	fmt.Fprintf(a.out, "\n%-10s %12s\n", "Items", strconv.Itoa(summary.ItemCount))
	fmt.Fprintf(a.out, "%-10s %12s\n", "Subtotal", a.money.Format(summary.Subtotal))
	fmt.Fprintf(a.out, "%-10s %12s\n", "Tax", a.money.Format(summary.Tax))
	fmt.Fprintf(a.out, "%-10s %12s\n", "Shipping", a.money.Format(summary.Shipping))
	_, err := fmt.Fprintf(a.out, "%-10s %12s\n", "Total", a.money.Format(summary.Total))
	return err
}
