package converter

import "math"

// Currency a currency code
type Currency string

// Amount a monetary amount
type Amount float64

// Valid reports whether a can be converted: finite and not negative
func (a Amount) Valid() bool {
	return a >= 0 && !math.IsInf(float64(a), 1)
}

// Rate an exchange rate
type Rate float64

// Rates maps a target currency to the rate from some source currency
type Rates map[Currency]Rate

// Exchanged result of a conversion
type Exchanged struct {
	Rate   Rate
	Amount Amount
}
