package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"database", "cache", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "cache", "database"}, order)
}

func TestShutdownCollectsFailures(t *testing.T) {
	m := New(time.Second, nil)

	failure := errors.New("connection already closed")
	var databaseClosed bool
	m.Register("database", func(context.Context) error {
		databaseClosed = true
		return nil
	})
	m.Register("cache", func(context.Context) error { return failure })

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.True(t, databaseClosed, "a failing hook does not abort the rest")
}

func TestShutdownAppliesTimeout(t *testing.T) {
	m := New(20*time.Millisecond, nil)

	var sawDeadline bool
	m.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			sawDeadline = true
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.True(t, sawDeadline)
}

func TestRegisterIgnoresNil(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestShutdownWithNilContext(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("component", func(context.Context) error { return nil })
	require.NoError(t, m.Shutdown(nil))
}
