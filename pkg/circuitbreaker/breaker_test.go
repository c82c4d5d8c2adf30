package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

func fail() error    { return errBackend }
func succeed() error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := cb.Execute(ctx, fail); !errors.Is(err, errBackend) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}
	if err := cb.Execute(ctx, succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen without calling the backend", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)
	cb.Execute(ctx, succeed)
	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)

	if cb.State() != StateClosed {
		t.Errorf("State = %v, want closed while failures stay under the threshold", cb.State())
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New("test", Config{
		MaxRequests:      2,
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          20 * time.Millisecond,
	})
	ctx := context.Background()

	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	time.Sleep(30 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State = %v, want half-open after the timeout", cb.State())
	}

	if err := cb.Execute(ctx, succeed); err != nil {
		t.Fatalf("probe 1: %v", err)
	}
	if err := cb.Execute(ctx, succeed); err != nil {
		t.Fatalf("probe 2: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State = %v, want closed after enough successes", cb.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New("test", Config{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          20 * time.Millisecond,
	})
	ctx := context.Background()

	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)
	time.Sleep(30 * time.Millisecond)

	if err := cb.Execute(ctx, fail); !errors.Is(err, errBackend) {
		t.Fatalf("probe err = %v", err)
	}
	if cb.State() != StateOpen {
		t.Errorf("State = %v, want open again after a failed probe", cb.State())
	}
}

func TestCancelledContextShortCircuits(t *testing.T) {
	cb := New("test", Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Error("backend must not be called with a dead context")
	}
}
