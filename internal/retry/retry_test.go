package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDo(t *testing.T) {
	fast := Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	t.Run("returns immediately on success", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), fast, func() error {
			attempts++
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("retries until success", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), fast, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("wraps the last error when attempts are exhausted", func(t *testing.T) {
		sentinel := errors.New("still broken")
		attempts := 0
		err := Do(context.Background(), fast, func() error {
			attempts++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("Do() error = %v, want it to wrap the last error", err)
		}
		if attempts != fast.MaxAttempts {
			t.Errorf("attempts = %d, want %d", attempts, fast.MaxAttempts)
		}
		if !strings.Contains(err.Error(), "after 3 attempts") {
			t.Errorf("error = %q, want attempt count in message", err)
		}
	})

	t.Run("treats zero max attempts as a single attempt", func(t *testing.T) {
		attempts := 0
		Do(context.Background(), Config{InitialDelay: time.Millisecond}, func() error {
			attempts++
			return errors.New("nope")
		})
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("cancelled context aborts before the next attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := Do(ctx, fast, func() error {
			attempts++
			cancel()
			return errors.New("transient")
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do() error = %v, want context.Canceled", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}
