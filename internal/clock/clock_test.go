package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "clock.Now() should not return time before actual time.Now()")
	assert.False(t, got.After(after), "clock.Now() should not return time after actual time.Now()")
}

func TestStepping_Now(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	c := NewStepping(start, 1500*time.Millisecond)

	first := c.Now()
	second := c.Now()

	assert.Equal(t, start, first)
	assert.Equal(t, 1500*time.Millisecond, second.Sub(first))
}

func TestStepping_ZeroStepIsFixed(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	c := NewStepping(start, 0)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now())
}
