package helper_test

import (
	"hotel/config"
	"hotel/helper"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	assert.EqualError(t, err, `unknown migration action "sideways"`)
}

func TestActions(t *testing.T) {
	assert.Equal(t, []string{"up", "down", "step-up", "drop", "version"}, helper.Actions)
}
