package utils

import (
	"math"
	"strconv"
)

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// RoundMoney rounds an amount to 2 fractional digits.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
