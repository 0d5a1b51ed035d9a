package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestGetDefault(t *testing.T) {
	assert.Same(t, slog.Default(), Get(context.Background()))
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := Store(context.Background(), slog.New(slog.NewJSONHandler(buf, nil)))
	ctx = With(ctx, "line", 3)

	Get(ctx).Info("decoded")

	assert.Contains(t, buf.String(), `"line":3`)
	assert.Contains(t, buf.String(), `"msg":"decoded"`)
}

func TestClose(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := Store(context.Background(), slog.New(slog.NewJSONHandler(buf, nil)))

	assert.NoError(t, Close(ctx, "ok", closerFunc(func() error { return nil })))
	assert.Empty(t, buf.String())

	errClose := errors.New("close failed")
	assert.ErrorIs(t, Close(ctx, "journal", closerFunc(func() error { return errClose })), errClose)
	assert.Contains(t, buf.String(), `"closer":"journal"`)
}
