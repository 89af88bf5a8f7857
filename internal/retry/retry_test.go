package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamtap/streamtap/internal/testutil"
)

func TestDo_Success(t *testing.T) {
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
	}

	ctx, cancel := testutil.NewTestContext()
	defer cancel()

	called := 0
	err := Do(ctx, cfg, func() error {
		called++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, called, "should succeed on first attempt")
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Millisecond,
	}

	called := 0
	err := Do(context.Background(), cfg, func() error {
		called++
		if called < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, called, "should succeed on third attempt")
}

func TestDo_ExhaustedRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Millisecond,
	}

	called := 0
	testErr := errors.New("persistent error")
	err := Do(context.Background(), cfg, func() error {
		called++
		return testErr
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, called, "should attempt MaxRetries times")
	assert.ErrorIs(t, err, testErr)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}

func TestDo_NonRetryableError(t *testing.T) {
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Millisecond,
	}

	called := 0
	fatal := errors.New("fatal")
	err := Do(context.Background(), cfg, func() error {
		called++
		return fatal
	}, func(err error) bool {
		return false
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, called, "non-retryable errors fail immediately")
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, func() error {
		return errors.New("always fails")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffFor_CapAndGrowth(t *testing.T) {
	cfg := Config{
		MaxRetries:     5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
	}

	assert.Equal(t, 100*time.Millisecond, backoffFor(cfg, 1))
	assert.Equal(t, 200*time.Millisecond, backoffFor(cfg, 2))
	assert.Equal(t, 300*time.Millisecond, backoffFor(cfg, 3), "backoff is capped at MaxBackoff")
}
