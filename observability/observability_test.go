package observability

import (
	"context"
	"errors"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestFieldConstructors(t *testing.T) {
	err := errors.New("boom")
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("name", "doc.pdf"), "name", "doc.pdf"},
		{Int("page", 7), "page", 7},
		{Int64("bytes", 1 << 33), "bytes", int64(1 << 33)},
		{Uint64("total", 42), "total", uint64(42)},
		{Bool("force", true), "force", true},
		{Error("err", err), "err", err},
	}
	for _, c := range cases {
		if c.field.Key() != c.key {
			t.Errorf("key %q, want %q", c.field.Key(), c.key)
		}
		if c.field.Value() != c.value {
			t.Errorf("value %v, want %v", c.field.Value(), c.value)
		}
	}
}

func TestNopLoggerWith(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("component", "cache"))
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
}
