package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatter_Format(t *testing.T) {
	f := NewMoneyFormatter("$")

	assert.Equal(t, "$1,155.00", f.Format(decimal.NewFromInt(1155)))
	assert.Equal(t, "$49.00", f.Format(49))
	assert.Equal(t, "$0.50", f.Format("0.5"))
	assert.Equal(t, "$0.00", f.Format("not-a-number"))
	assert.Equal(t, "$0.00", f.Format(struct{}{}))
}

func TestNewMoneyFormatter_DefaultSymbol(t *testing.T) {
	f := NewMoneyFormatter("")

	assert.Equal(t, DefaultCurrencySymbol+"10.00", f.Format(int64(10)))
}
