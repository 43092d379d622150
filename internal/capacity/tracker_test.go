package capacity

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryRegister(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Open(1, 2))

	require.NoError(t, tr.TryRegister(1, 100))
	assert.ErrorIs(t, tr.TryRegister(1, 100), ErrAlreadyRegistered)
	require.NoError(t, tr.TryRegister(1, 101))
	assert.ErrorIs(t, tr.TryRegister(1, 102), ErrCapacityExceeded)

	// дубликат проверяется раньше вместимости
	assert.ErrorIs(t, tr.TryRegister(1, 101), ErrAlreadyRegistered)

	registered, capacity, ok := tr.Count(1)
	assert.True(t, ok)
	assert.Equal(t, 2, registered)
	assert.Equal(t, 2, capacity)
}

func TestRelease(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Open(1, 1, 100))

	assert.ErrorIs(t, tr.TryRegister(1, 101), ErrCapacityExceeded)
	require.NoError(t, tr.Release(1, 100))
	assert.ErrorIs(t, tr.Release(1, 100), ErrNotRegistered)
	require.NoError(t, tr.TryRegister(1, 101))
	assert.True(t, tr.IsRegistered(1, 101))
	assert.False(t, tr.IsRegistered(1, 100))
}

func TestUnknownSession(t *testing.T) {
	tr := NewTracker()

	assert.ErrorIs(t, tr.TryRegister(9, 1), ErrUnknownSession)
	assert.ErrorIs(t, tr.Release(9, 1), ErrUnknownSession)

	require.NoError(t, tr.Open(9, 3))
	tr.Close(9)
	_, _, ok := tr.Count(9)
	assert.False(t, ok)
}

func TestOpen_Validation(t *testing.T) {
	tr := NewTracker()

	assert.ErrorIs(t, tr.Open(1, 0), ErrInvalidCapacity)
	assert.ErrorIs(t, tr.Open(1, 1, 10, 11), ErrCapacityExceeded)
}

func TestTryRegister_Concurrent(t *testing.T) {
	const capacity = 10
	const attempts = 50

	tr := NewTracker()
	require.NoError(t, tr.Open(1, capacity))

	var ok, full int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(member int64) {
			defer wg.Done()
			err := tr.TryRegister(1, member)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrCapacityExceeded):
				atomic.AddInt32(&full, 1)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, int32(capacity), ok)
	assert.Equal(t, int32(attempts-capacity), full)
}
