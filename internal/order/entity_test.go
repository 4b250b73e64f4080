// AngelaMos | 2026
// entity_test.go

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	legal := [][2]string{
		{StatusPending, StatusPaid},
		{StatusPending, StatusCancelled},
		{StatusPaid, StatusPacked},
		{StatusPaid, StatusCancelled},
		{StatusPacked, StatusShipped},
		{StatusPacked, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, pair := range legal {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	illegal := [][2]string{
		{StatusPending, StatusPacked},
		{StatusPaid, StatusShipped},
		{StatusPacked, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusDelivered, StatusDelivered},
	}
	for _, pair := range illegal {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("PAGADO"))
	assert.False(t, ValidStatus(""))
}

func TestCommissionRounding(t *testing.T) {
	assert.Equal(t, int64(840), Commission(56000, 0.015))
	assert.Equal(t, int64(1350), Commission(90000, 0.015))
	assert.Equal(t, int64(0), Commission(1, 0.015))
	// 100 * 0.015 = 1.5 rounds up.
	assert.Equal(t, int64(2), Commission(100, 0.015))
}
