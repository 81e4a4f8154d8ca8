package utils

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}

func GetRunIDFromCtx(ctx context.Context) string {
	runID, ok := ctx.Value(runIDKey{}).(string)
	if !ok {
		return ""
	}
	return runID
}

// CreateCtxWithRunID returns ctx tagged with a fresh run id unless it already carries one.
func CreateCtxWithRunID(ctx context.Context) context.Context {
	if runID := GetRunIDFromCtx(ctx); runID != "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, uuid.NewString())
}

func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}
