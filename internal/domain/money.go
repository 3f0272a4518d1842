package domain

import "github.com/shopspring/decimal"

func init() {
	// The dashboard front-end reads monetary values as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Round1 rounds d to one decimal place, half away from zero, and returns it as
// a float for presentation.
func Round1(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}
