package main

import (
	"context"

	"github.com/danrasband/reconcile/internal/ports"
)

type loggerKey struct{}

func withAppLogger(ctx context.Context, l ports.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFromContext(ctx context.Context) ports.Logger {
	if l, ok := ctx.Value(loggerKey{}).(ports.Logger); ok {
		return l
	}
	return nil
}
