package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

func TestErrorLevel(t *testing.T) {
	tests := []struct {
		code connect.Code
		want slog.Level
	}{
		{connect.CodeInvalidArgument, slog.LevelWarn},
		{connect.CodeNotFound, slog.LevelWarn},
		{connect.CodeAlreadyExists, slog.LevelWarn},
		{connect.CodeInternal, slog.LevelError},
		{connect.CodeUnknown, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := errorLevel(tt.code); got != tt.want {
				t.Errorf("errorLevel(%v) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("bill not found"))
	}
	_, err := LoggingInterceptor()(failing)(context.Background(), connect.NewRequest(&struct{}{}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("interceptor changed the error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "RPC failed", "code=not_found"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
