package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Client      string   `json:"client" validate:"notblank,max=255"`
	ScheduledAt string   `json:"scheduled_at" validate:"omitempty,datetime-input"`
	Type        string   `json:"type" validate:"option-type"`
	FollowUp    []string `json:"follow_up" validate:"omitempty,dive,max=5"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&sampleForm{Client: "   ", ScheduledAt: "someday", Type: "city", FollowUp: []string{"ok", "too long"}})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["client"])
	assert.Equal(t, "Must be a valid date-time", vErr.Errors["scheduled_at"])
	assert.Contains(t, vErr.Errors, "type")
	assert.Contains(t, vErr.Errors, "follow_up[1]")
	assert.NotContains(t, vErr.Errors, "follow_up[0]")
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&sampleForm{Client: "日昇科技", ScheduledAt: "2024-01-01T10:00", Type: "tag"}))
	assert.NoError(t, v.Validate(&sampleForm{Client: "x", Type: "client"}))
}
