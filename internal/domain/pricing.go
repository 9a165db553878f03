package domain

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const charsPerPriceUnit = 1000

// PriceTable maps a model to its USD rate per 1000 response characters.
// Models without an entry fall back to DefaultRate.
type PriceTable struct {
	Rates       map[ModelID]decimal.Decimal
	DefaultRate decimal.Decimal
}

func (p PriceTable) RateFor(model ModelID) decimal.Decimal {
	if rate, ok := p.Rates[model]; ok {
		return rate
	}
	return p.DefaultRate
}

// EstimateCost prices a response by its character count.
func (p PriceTable) EstimateCost(model ModelID, responseLength int) decimal.Decimal {
	if responseLength <= 0 {
		return decimal.Zero
	}

	length := decimal.NewFromInt(int64(responseLength))
	return p.RateFor(model).Mul(length).Div(decimal.NewFromInt(charsPerPriceUnit))
}

// ResponseLength is the system-wide definition of response size: the
// rune count of the response text.
func ResponseLength(response string) int {
	return utf8.RuneCountInString(response)
}
