package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	var body struct {
		Tag StringList `json:"tag"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"tag":"客戶跟進"}`), &body))
	assert.Equal(t, StringList{"客戶跟進"}, body.Tag)

	require.NoError(t, json.Unmarshal([]byte(`{"tag":["a"," b ","a",""]}`), &body))
	assert.Equal(t, []string{"a", "b"}, body.Tag.Normalize())

	require.NoError(t, json.Unmarshal([]byte(`{"tag":null}`), &body))
	assert.Empty(t, body.Tag.Normalize())

	assert.Error(t, json.Unmarshal([]byte(`{"tag":42}`), &body))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "call back", SanitizeText("  <b>call</b> back "))
	assert.Equal(t, "R&D <3", SanitizeText("R&D <3"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}
