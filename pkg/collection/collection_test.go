package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cafahardware/pos/pkg/collection"
)

type line struct {
	Product  string
	Quantity int
	Price    float64
}

func TestSumInt(t *testing.T) {
	lines := []line{
		{Product: "Hammer", Quantity: 2, Price: 350},
		{Product: "Cement", Quantity: 10, Price: 265},
		{Product: "Plywood", Quantity: 4, Price: 580},
	}

	units := collection.SumInt(lines, func(l line) int { return l.Quantity })
	assert.Equal(t, 16, units)

	total := collection.Sum(lines, func(l line) float64 { return l.Price * float64(l.Quantity) })
	assert.Equal(t, 5670.0, total)
}

func TestFilterAndGroupBy(t *testing.T) {
	lines := []line{
		{Product: "Hammer", Quantity: 0},
		{Product: "Cement", Quantity: 10},
		{Product: "Nails", Quantity: 0},
	}

	out := collection.Filter(lines, func(l line) bool { return l.Quantity == 0 })
	assert.Len(t, out, 2)

	grouped := collection.GroupBy(lines, func(l line) string {
		if l.Quantity == 0 {
			return "out"
		}
		return "stocked"
	})
	assert.Len(t, grouped["out"], 2)
	assert.Len(t, grouped["stocked"], 1)
}
