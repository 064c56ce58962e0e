package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcore-io/triggers/pkg/core"
)

func TestNewHandler_ModernValueShape(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.False(t, h.Legacy())
}

func TestNewHandler_ModernVoidShape(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext) error {
		return nil
	})
	require.NoError(t, err)
	assert.False(t, h.Legacy())
}

func TestNewHandler_LegacyShape(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Success(nil)
	})
	require.NoError(t, err)
	assert.True(t, h.Legacy())
}

func TestNewHandler_RejectsMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		fn   any
	}{
		{"nil", nil},
		{"typed nil func", (func(context.Context, *core.EventContext) error)(nil)},
		{"not a function", "hello"},
		{"no parameters", func() error { return nil }},
		{"missing context", func(ec *core.EventContext) error { return nil }},
		{"wrong second parameter", func(ctx context.Context, s string) error { return nil }},
		{"too many parameters", func(ctx context.Context, ec *core.EventContext, r *Responder, x int) {}},
		{"wrong third parameter", func(ctx context.Context, ec *core.EventContext, x int) {}},
		{"responder with return", func(ctx context.Context, ec *core.EventContext, r *Responder) error { return nil }},
		{"no error return", func(ctx context.Context, ec *core.EventContext) string { return "" }},
		{"three returns", func(ctx context.Context, ec *core.EventContext) (string, string, error) { return "", "", nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHandler(tt.fn)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidHandler)
		})
	}
}

func TestInvoke_ModernReturnsValue(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext) (map[string]any, error) {
		return map[string]any{"n": 7}, nil
	})
	require.NoError(t, err)

	v, err := h.Invoke(context.Background(), &core.EventContext{Kind: core.KindFunction})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 7}, v)
}

func TestInvoke_ModernVoidReturnsNil(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext) error {
		return nil
	})
	require.NoError(t, err)

	v, err := h.Invoke(context.Background(), &core.EventContext{Kind: core.KindBeforeSave})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInvoke_ModernReturnsError(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext) error {
		return errors.New("boom")
	})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), &core.EventContext{Kind: core.KindBeforeSave})
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestInvoke_LegacySuccessWithValue(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Success("hello")
	})
	require.NoError(t, err)

	v, err := h.Invoke(context.Background(), &core.EventContext{Kind: core.KindFunction})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestInvoke_LegacyErrorIsNormalized(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Error("nope")
	})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), &core.EventContext{Kind: core.KindFunction})
	require.Error(t, err)

	var ne *core.Error
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, core.CodeScriptFailed, ne.Code)
	assert.Equal(t, "nope", ne.Message)
}

func TestInvoke_LegacyErrorPreservesDomainCode(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Error(core.NewError(core.CodeValidationFailed, "rejected"))
	})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), &core.EventContext{Kind: core.KindBeforeSave})

	var ne *core.Error
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, core.CodeValidationFailed, ne.Code)
	assert.Equal(t, "rejected", ne.Message)
}

func TestInvoke_LegacyFirstSettleWins(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Success("first")
		r.Error("second")
		r.Success("third")
	})
	require.NoError(t, err)

	v, err := h.Invoke(context.Background(), &core.EventContext{Kind: core.KindFunction})
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestInvoke_LegacySettlesFromGoroutine(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			r.Success(42)
		}()
	})
	require.NoError(t, err)

	v, err := h.Invoke(context.Background(), &core.EventContext{Kind: core.KindJob})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestInvoke_LegacyMessageForwardsToSink(t *testing.T) {
	var got []string
	ec := &core.EventContext{Kind: core.KindJob}
	ec.SetMessageSink(func(s string) {
		got = append(got, s)
	})

	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		r.Message("step 1")
		r.Message("step 2")
		r.Success(nil)
	})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, []string{"step 1", "step 2"}, got)
}

func TestInvoke_LegacyNeverSettlesHonorsContext(t *testing.T) {
	h, err := NewHandler(func(ctx context.Context, ec *core.EventContext, r *Responder) {
		// Never settles.
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Invoke(ctx, &core.EventContext{Kind: core.KindFunction})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
