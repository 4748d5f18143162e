package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		entry     string
		wantKey   string
		wantValue string
	}{
		{"PORT=8080", "PORT", "8080"},
		{"EMPTY=", "EMPTY", ""},
		{"NOVALUE", "NOVALUE", ""},
		{"DSN=host=localhost port=5432", "DSN", "host=localhost port=5432"},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			key, value := split(tt.entry)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestGetString(t *testing.T) {
	config := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(config, "PORT", "8080"))
	assert.Equal(t, "", GetString(config, "EMPTY", "8080"))
	assert.Equal(t, "8080", GetString(config, "MISSING", "8080"))
	assert.Equal(t, "8080", GetString(nil, "PORT", "8080"))
}

func TestGetInt(t *testing.T) {
	config := map[string]string{"LIMIT": "25", "BROKEN": "abc"}

	assert.Equal(t, 25, GetInt(config, "LIMIT", 10))
	assert.Equal(t, 10, GetInt(config, "BROKEN", 10))
	assert.Equal(t, 10, GetInt(config, "MISSING", 10))
	assert.Equal(t, 10, GetInt(nil, "LIMIT", 10))
}

func TestGetBool(t *testing.T) {
	config := map[string]string{
		"STRICT":   "true",
		"UPPER":    "TRUE",
		"NUMERIC":  "1",
		"DISABLED": "false",
		"BROKEN":   "yes",
	}

	assert.True(t, GetBool(config, "STRICT", false))
	assert.True(t, GetBool(config, "UPPER", false))
	assert.True(t, GetBool(config, "NUMERIC", false))
	assert.False(t, GetBool(config, "DISABLED", true))
	assert.True(t, GetBool(config, "BROKEN", true))
	assert.False(t, GetBool(config, "MISSING", false))
	assert.True(t, GetBool(nil, "STRICT", true))
}
