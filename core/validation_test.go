package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationFixture struct {
	Date   string `json:"date"   validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"omitempty,oneof=done planned"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(validationFixture{Date: "2025-03-01", Status: "done"}))
	})

	t.Run("reports json names", func(t *testing.T) {
		err := ValidateStruct(validationFixture{Status: "nope"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "date is required")
		assert.Contains(t, err.Error(), "status must be one of [done planned]")
	})

	t.Run("bad date", func(t *testing.T) {
		err := ValidateStruct(validationFixture{Date: "03/01/2025"})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "date must match 2006-01-02")
	})
}
