package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	want := []string{"http_server", "redis", "postgres"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestShutdownJoinsErrorsAndKeepsGoing(t *testing.T) {
	m := New(time.Second, nil)

	failure := errors.New("close failed")
	stopped := false
	m.Register("pool", func(ctx context.Context) error {
		stopped = true
		return nil
	})
	m.Register("server", func(ctx context.Context) error { return failure })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, failure) {
		t.Fatalf("err = %v, want wrapped %v", err, failure)
	}
	if !stopped {
		t.Fatalf("remaining hook skipped after earlier failure")
	}
}

func TestRegisterAfterShutdownIsIgnored(t *testing.T) {
	m := New(time.Second, nil)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	m.Register("late", func(ctx context.Context) error {
		t.Fatalf("late hook must not run")
		return nil
	})
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
