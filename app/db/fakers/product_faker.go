package fakers

import (
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var imagePaths = []string{
	"assets/images/products/ss.jpg",
	"assets/images/products/ss1.jpg",
	"assets/images/products/ss2.jpg",
}

var discounts = []int64{0, 0, 0, 5, 10, 25}

func ProductFaker() models.ProductData {
	name := capitalize(faker.Word()) + " " + capitalize(faker.Word())

	numImages := rand.Intn(3) + 1
	images := make([]string, numImages)
	for i := range images {
		images[i] = imagePaths[rand.Intn(len(imagePaths))]
	}

	return models.ProductData{
		ID:          slug.Make(name + "-" + uuid.NewString()[:6]),
		Name:        name,
		Description: faker.Sentence(),
		Category:    faker.Word(),
		Price:       decimal.NewFromFloat(fakePrice()),
		Discount:    decimal.NewFromInt(discounts[rand.Intn(len(discounts))]),
		Images:      images,
		Stock:       rand.Intn(20) + 1,
	}
}

// fakePrice returns a price between 1 and 2000 with at most two decimals.
func fakePrice() float64 {
	return precision(1+rand.Float64()*math.Pow10(rand.Intn(3)+1)*2, rand.Intn(2)+1)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
