package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Allow())

	b.RecordFailure()
	assert.Equal(t, CircuitStateClosed, b.State())

	b.RecordFailure()
	assert.Equal(t, CircuitStateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	now = now.Add(6 * time.Second)
	require.NoError(t, b.Allow())
	assert.Equal(t, CircuitStateHalfOpen, b.State())

	b.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_ExecuteClassifiesErrors(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	clientErr := errors.New("bad request")
	transient := errors.New("connection reset")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	err := b.Execute(func() error { return clientErr }, isTransient)
	assert.ErrorIs(t, err, clientErr)
	assert.Equal(t, CircuitStateClosed, b.State())

	err = b.Execute(func() error { return transient }, isTransient)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, CircuitStateOpen, b.State())

	called := false
	err = b.Execute(func() error { called = true; return nil }, isTransient)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerConfig_BuildDisabled(t *testing.T) {
	var b *CircuitBreaker = CircuitBreakerConfig{Enabled: false}.Build()
	assert.Nil(t, b)
	assert.NoError(t, b.Execute(func() error { return nil }, nil))
	assert.Equal(t, CircuitStateClosed, b.State())
}
