package seeders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/go-storefront/app/db/fakers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"go.uber.org/zap"
)

const maxCartLines = 4

type SeededUser struct {
	User *models.User
	Cart *models.CartPayload
}

// DBSeed creates count demo customers sharing password, each with a mirrored
// cart of fake products. Emails that already exist are skipped.
func DBSeed(ctx context.Context, users repositories.UserRepositoryImpl, carts repositories.RemoteCartRepository, count int, password string, logger *zap.SugaredLogger) ([]SeededUser, error) {
	seeded := make([]SeededUser, 0, count)
	for i := 0; i < count; i++ {
		user := fakers.UserFaker(password)
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrEmailTaken) {
				logger.Infof("DBSeed: skipping existing user %s", user.Email)
				continue
			}
			return seeded, fmt.Errorf("failed to seed user: %w", err)
		}

		cart := fakeCart()
		if err := carts.SaveCart(ctx, user.ID, cart); err != nil {
			return seeded, fmt.Errorf("failed to seed cart for %s: %w", user.Email, err)
		}
		seeded = append(seeded, SeededUser{User: user, Cart: cart})
	}
	return seeded, nil
}

func fakeCart() *models.CartPayload {
	lines := rand.Intn(maxCartLines) + 1
	items := make([]models.LineItem, 0, lines)
	for i := 0; i < lines; i++ {
		product := fakers.ProductFaker()
		embedded := product
		items = append(items, models.LineItem{
			ProductID:       product.ID,
			Quantity:        rand.Intn(3) + 1,
			Price:           calc.DiscountedPrice(product.Price, product.Discount),
			OriginalPrice:   product.Price,
			DiscountPercent: product.Discount,
			Name:            product.Name,
			Image:           product.Images[0],
			Product:         &embedded,
		})
	}
	summary := calc.ComputeSummary(items)
	return &models.CartPayload{Items: items, Summary: &summary}
}
