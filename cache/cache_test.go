package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListKey(t *testing.T) {
	assert.Equal(t, "projects:list:all:0", ListKey("", 0))
	assert.Equal(t, "projects:list:vue:6", ListKey("Vue", 6))
	assert.Equal(t, "projects:list:typescript:0", ListKey("TypeScript", 0))
}

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "projects:detail:weather-dashboard", DetailKey("weather-dashboard"))
}

func TestNopInvalidator(t *testing.T) {
	assert.NoError(t, NewNopInvalidator().InvalidateProjects())
}
