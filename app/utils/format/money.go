package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const DefaultCurrencySymbol = "₹"

type MoneyFormatter struct {
	ac accounting.Accounting
}

func NewMoneyFormatter(symbol string) *MoneyFormatter {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return &MoneyFormatter{
		ac: accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."},
	}
}

func (f *MoneyFormatter) Format(amount interface{}) string {
	switch v := amount.(type) {
	case decimal.Decimal:
		return f.ac.FormatMoneyDecimal(v)
	case float64:
		return f.ac.FormatMoneyDecimal(decimal.NewFromFloat(v))
	case int:
		return f.ac.FormatMoneyDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return f.ac.FormatMoneyDecimal(decimal.NewFromInt(v))
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return f.ac.FormatMoneyDecimal(decimal.Zero)
		}
		return f.ac.FormatMoneyDecimal(parsed)
	default:
		return f.ac.FormatMoneyDecimal(decimal.Zero)
	}
}
