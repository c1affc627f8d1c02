package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_ReleaseTwice(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	fl, err := s.lock(t.Context())
	require.NoError(t, err)
	assert.FileExists(t, s.Path(lockName))

	require.NoError(t, fl.release())
	assert.NoError(t, fl.release())
}

func TestLock_WaitsForHolder(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	held, err := s.lock(t.Context())
	require.NoError(t, err)

	acquired := make(chan *fileLock)
	go func() {
		fl, err := s.lock(context.Background())
		if err != nil {
			t.Errorf("second lock: %v", err)
			close(acquired)
			return
		}
		acquired <- fl
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, held.release())

	select {
	case fl := <-acquired:
		require.NotNil(t, fl)
		assert.NoError(t, fl.release())
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after release")
	}
}

func TestLock_Cancelled(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	held, err := s.lock(t.Context())
	require.NoError(t, err)
	defer held.release()

	ctx, cancel := context.WithTimeout(t.Context(), 150*time.Millisecond)
	defer cancel()
	_, err = s.lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLock_MissingStore(t *testing.T) {
	t.Parallel()

	_, err := New("/non-existent-dir/store").lock(t.Context())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestList_IgnoresLockFile(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	require.NoError(t, os.Mkdir(s.Path("dots"), 0o755))
	fl, err := s.lock(t.Context())
	require.NoError(t, err)
	defer fl.release()

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"dots"}, names)
}
