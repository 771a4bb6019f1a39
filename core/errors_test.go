package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgumentError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewArgumentError("missing argument for %s", "--flag"))
	assert.ErrorIs(t, err, ErrArgument)
	assert.True(t, IsArgumentError(err))
	assert.Equal(t, "wrapped: missing argument for --flag", err.Error())
	assert.False(t, errors.Is(err, ErrInvalidFlagSpec))
}

func TestInvalidFlagSpecError_Is(t *testing.T) {
	err := &InvalidFlagSpecError{Key: "flag1", Value: []string{"cow"}}
	assert.ErrorIs(t, err, ErrInvalidFlagSpec)
	assert.False(t, IsArgumentError(err))
	assert.Contains(t, err.Error(), "flag1")
}

func TestNames(t *testing.T) {
	assert.Equal(t, "dry_run_now", Underscore("dry-run-now"))
	assert.Equal(t, "dry-run-now", Hyphenate("dry_run_now"))
	assert.True(t, IsFlagLike("-"))
	assert.True(t, IsFlagLike("--x"))
	assert.False(t, IsFlagLike("x"))
	assert.False(t, IsFlagLike(-1))
}
