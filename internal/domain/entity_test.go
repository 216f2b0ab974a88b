package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceLabel(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{9.5, "$9.5"},
		{10, "$10"},
		{0, "$0"},
		{1999.99, "$1999.99"},
		{-5, "$-5"},
		{math.Copysign(0, -1), "$0"},
		{123456789012345680000, "$123456789012345680000"},
		{1e21, "$1e+21"},
		{1.5e300, "$1.5e+300"},
		{0.000001, "$0.000001"},
		{1e-7, "$1e-7"},
		{-2.5e-10, "$-2.5e-10"},
		{math.Inf(1), "$Infinity"},
		{math.Inf(-1), "$-Infinity"},
		{math.NaN(), "$NaN"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Product{Id: 7, Name: "Widget", Price: c.price}.PriceLabel())
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "7", Product{Id: 7}.Key())
	assert.Equal(t, "42", User{Id: 42}.Key())
}
