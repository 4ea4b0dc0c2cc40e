package core

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	err := StoreError("get guild config", sql.ErrConnDone)

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Contains(t, err.Error(), "failed to get guild config")
}

func TestValidationError(t *testing.T) {
	err := ValidationError("trigger cannot be longer than %d characters", 100)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: trigger cannot be longer than 100 characters", err.Error())
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("identity u_1: %w", ErrNotFound)))
}
