package mcp

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize matches the HTTP upload limit.
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "ENVGUARD_MCP_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// checkInput rejects tool arguments that are too large or not UTF-8.
// Inputs are never truncated or rewritten, since every byte of a value matters.
func checkInput(name, input string) error {
	limit := getMaxInputSize()
	if len(input) > limit {
		return fmt.Errorf("%s: %w: size=%d limit=%d", name, ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}
	return nil
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
