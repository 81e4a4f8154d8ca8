package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRunIDFromCtx_Empty(t *testing.T) {
	assert.Empty(t, GetRunIDFromCtx(context.Background()))
}

func TestCreateCtxWithRunID(t *testing.T) {
	ctx := CreateCtxWithRunID(context.Background())
	runID := GetRunIDFromCtx(ctx)
	assert.Len(t, runID, 36)

	// an existing run id is kept
	again := CreateCtxWithRunID(ctx)
	assert.Equal(t, runID, GetRunIDFromCtx(again))
}

func TestWithRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	assert.Equal(t, "run-1", GetRunIDFromCtx(ctx))
}
