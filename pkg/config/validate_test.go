package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{"30 5 * * *", "*/15 * * * *", "0 6 * * 1-5", "@hourly"}
	for _, s := range valid {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}

	invalid := []string{"", "every hour", "61 * * * *", "* * * * * *"}
	for _, s := range invalid {
		assert.Error(t, ValidateCronSchedule(s), s)
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Millisecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 64))
	assert.NoError(t, ValidateIntRange(64, 1, 64))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 64), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(65, 1, 64), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}

func TestValidateOneOf(t *testing.T) {
	assert.NoError(t, ValidateOneOf("csv", "xlsx", "csv", "postgres"))
	assert.ErrorContains(t, ValidateOneOf("json", "xlsx", "csv"), "must be one of")
}
