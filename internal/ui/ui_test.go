package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintfDropsColorTokensWhenNotATTY(t *testing.T) {
	original := IsTTY
	IsTTY = false
	defer func() { IsTTY = original }()

	out := Sprintf("${BOLD}hello %s${RESET}", "world")
	assert.Equal(t, "hello world", out)
}

func TestSprintfExpandsColorTokensWhenATTY(t *testing.T) {
	original := IsTTY
	IsTTY = true
	defer func() { IsTTY = original }()

	out := Sprintf("${RED}warn${RESET}")
	assert.Equal(t, "\x1b[31mwarn\x1b[0m", out)
}

func TestNewLoggerReturnsNonNilLogger(t *testing.T) {
	logger := NewLogger("test", true)
	assert.NotNil(t, logger)
	assert.True(t, logger.IsDebug())
}

func TestErrorPrefixIsNonEmpty(t *testing.T) {
	assert.Contains(t, ErrorPrefix(), "error:")
}
