package domain

import (
	"math"
	"strconv"
	"strings"
)

type Product struct {
	Id    int     `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// PriceLabel renders the price the way a browser prints a number:
// 9.5 -> "$9.5", 1e21 -> "$1e+21", 1e-7 -> "$1e-7".
func (p Product) PriceLabel() string {
	return "$" + formatNumber(p.Price)
}

// formatNumber uses the shortest round-tripping digits, switching to
// exponent notation outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (p Product) Key() string {
	return strconv.Itoa(p.Id)
}

type User struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

func (u User) Key() string {
	return strconv.Itoa(u.Id)
}
