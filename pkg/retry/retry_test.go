package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartdeal/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}

	t.Run("SucceedsAfterFailures", func(t *testing.T) {
		attempts := 0
		err := retry.Do(t.Context(), cfg, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("not yet")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		attempts := 0
		wantErr := errors.New("still broken")
		err := retry.Do(t.Context(), cfg, func() error {
			attempts++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, attempts)
	})

	t.Run("StopsOnNonRetryableError", func(t *testing.T) {
		fatal := errors.New("fatal")
		stopCfg := cfg
		stopCfg.ShouldRetry = func(err error) bool {
			return !errors.Is(err, fatal)
		}

		attempts := 0
		err := retry.Do(t.Context(), stopCfg, func() error {
			attempts++
			return fatal
		})
		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, attempts)
	})
}

func TestDoWithResult(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 2,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}

	attempts := 0
	got, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
