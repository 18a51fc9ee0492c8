package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"word", "happy", "api_key", "sk-123", "Admin_Token", "abc", "dangling"})

	assert.Equal(t, []interface{}{"word", "happy", "api_key", "[REDACTED]", "Admin_Token", "[REDACTED]", "dangling"}, got)
}

func TestNew(t *testing.T) {
	l, err := New("development", "debug")
	assert.NoError(t, err)
	l.With("component", "test").Debug("hello", "n", 1)

	l, err = New("prod", "not-a-level")
	assert.NoError(t, err)
	assert.NotNil(t, l.SugaredLogger)
}
