package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLock_Exclusive(t *testing.T) {
	l := New(time.Second)

	var inside, maxInside int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			unlock, err := l.Lock(context.Background(), "trainer:1")
			if err != nil {
				return err
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Len())
}

func TestLock_DisjointKeysDoNotBlock(t *testing.T) {
	l := New(50 * time.Millisecond)

	unlockA, err := l.Lock(context.Background(), Key("trainer", 1))
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(context.Background(), Key("trainer", 2))
	require.NoError(t, err)
	unlockB()
}

func TestLock_Timeout(t *testing.T) {
	l := New(20 * time.Millisecond)

	unlock, err := l.Lock(context.Background(), "room:7")
	require.NoError(t, err)
	defer unlock()

	start := time.Now()
	_, err = l.Lock(context.Background(), "room:7")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLock_PartialAcquisitionIsRolledBack(t *testing.T) {
	l := New(20 * time.Millisecond)

	unlock, err := l.Lock(context.Background(), "room:2")
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), "room:1", "room:2")
	require.ErrorIs(t, err, ErrTimeout)

	// room:1 должен быть свободен после неудачной попытки
	unlock1, err := l.Lock(context.Background(), "room:1")
	require.NoError(t, err)
	unlock1()
	unlock()

	assert.Equal(t, 0, l.Len())
}

func TestLock_OppositeOrderDoesNotDeadlock(t *testing.T) {
	l := New(2 * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "a", "b")
			if assert.NoError(t, err) {
				unlock()
			}
		}()
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "b", "a")
			if assert.NoError(t, err) {
				unlock()
			}
		}()
	}
	wg.Wait()
}

func TestLock_CancelledContext(t *testing.T) {
	l := New(0)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnlock_Idempotent(t *testing.T) {
	l := New(time.Second)

	unlock, err := l.Lock(context.Background(), "k", "k", "")
	require.NoError(t, err)
	unlock()
	unlock()

	assert.Equal(t, 0, l.Len())
}
