package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cafahardware/pos/app/models"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		9.5:        "9.50",
		265:        "265.00",
		1234.5:     "1,234.50",
		1000000:    "1,000,000.00",
		987654.321: "987,654.32",
		-1234.5:    "-1,234.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(in), "formatAmount(%v)", in)
	}
}

func TestCustomerPhone(t *testing.T) {
	order := &models.Order{}
	assert.Empty(t, customerPhone(order))

	order.Customer = &models.Customer{Phone: "09171234567"}
	assert.Equal(t, "09171234567", customerPhone(order))
}
