package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethod(t *testing.T) {
	for _, ok := range []string{"card", "cash", "cash_on_delivery", " card "} {
		_, got := PaymentMethod(ok)
		assert.True(t, got, ok)
	}
	for _, bad := range []string{"", "Card", "cash-on-delivery", "card;drop", strings.Repeat("a", 33)} {
		_, got := PaymentMethod(bad)
		assert.False(t, got, bad)
	}
}

func TestPostalCodeAndPhone(t *testing.T) {
	_, ok := PostalCode("20742")
	assert.True(t, ok)
	_, ok = PostalCode("20742-1234")
	assert.True(t, ok)
	_, ok = PostalCode("2074")
	assert.False(t, ok)

	_, ok = Phone("+1 (301) 555-0100")
	assert.True(t, ok)
	_, ok = Phone("call me")
	assert.False(t, ok)
}

func TestQtyClamp(t *testing.T) {
	assert.Equal(t, 1, Qty("zero"))
	assert.Equal(t, 1, Qty("-3"))
	assert.Equal(t, 7, Qty(" 7 "))
	assert.Equal(t, 50, Qty("5000"))
	assert.Equal(t, 1, ClampQty(0))
}

func TestIdempotencyKey(t *testing.T) {
	_, ok := IdempotencyKey("")
	assert.True(t, ok)
	_, ok = IdempotencyKey("2f1c-retry:1")
	assert.True(t, ok)
	_, ok = IdempotencyKey("has space")
	assert.False(t, ok)
}
