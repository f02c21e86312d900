package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey_UsesUTCDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	// 08:30 on the 2nd in Tokyo is still the 1st in UTC.
	assert.Equal(t, "2026-03-01", DayKey(time.Date(2026, 3, 2, 8, 30, 0, 0, tokyo)))
	assert.Equal(t, "2026-03-02", DayKey(time.Date(2026, 3, 2, 9, 0, 0, 0, tokyo)))
}
