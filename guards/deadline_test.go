package guards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/skyway/dispatch"
)

func TestDeadline(t *testing.T) {
	t.Run("config error zero min remaining", func(t *testing.T) {
		_, err := Deadline(DeadlineConfig{})
		assert.ErrorIs(t, err, ErrInvalidDeadline)
	})

	t.Run("no deadline passes", func(t *testing.T) {
		guard, err := Deadline(DeadlineConfig{MinRemaining: time.Second})
		require.NoError(t, err)

		out := guard.Check(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, out.IsSuccess())
	})

	t.Run("ample deadline passes", func(t *testing.T) {
		guard, err := Deadline(DeadlineConfig{MinRemaining: 10 * time.Millisecond})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		out := guard.Check(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, out.IsSuccess())
	})

	t.Run("insufficient deadline fails 503", func(t *testing.T) {
		guard, err := Deadline(DeadlineConfig{MinRemaining: time.Hour})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		out := guard.Check(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, out.IsFailure())
		assert.Equal(t, dispatch.StatusServiceUnavailable, out.Status())
	})

	t.Run("canceled context fails 503", func(t *testing.T) {
		guard, err := Deadline(DeadlineConfig{MinRemaining: time.Millisecond})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out := guard.Check(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, out.IsFailure())
		assert.Equal(t, dispatch.StatusServiceUnavailable, out.Status())
	})

	t.Run("failure stops candidate iteration", func(t *testing.T) {
		guard, err := Deadline(DeadlineConfig{MinRemaining: time.Hour})
		require.NoError(t, err)

		app := dispatch.New()
		var reached bool
		app.HandleFunc("/work", func(_ context.Context, _ *http.Request) dispatch.Outcome {
			return dispatch.Success(dispatch.Text(dispatch.StatusOK, "guarded"))
		}).Methods(http.MethodGet).Guard(guard).Rank(1)
		app.HandleFunc("/work", func(_ context.Context, _ *http.Request) dispatch.Outcome {
			reached = true
			return dispatch.Success(dispatch.Text(dispatch.StatusOK, "fallback"))
		}).Methods(http.MethodGet).Rank(2)
		require.NoError(t, app.Seal())

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		resp := app.Dispatch(ctx, httptest.NewRequest(http.MethodGet, "/work", nil))
		assert.Equal(t, dispatch.StatusServiceUnavailable, resp.Status())
		assert.False(t, reached)
	})
}
