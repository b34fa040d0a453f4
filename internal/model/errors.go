package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for image loading. Every one of them is terminal for the
// invocation which hit it, the caller decides about a retry.
var (
	ErrNotFound   = errors.New("not found")
	ErrUnreadable = errors.New("unreadable")
	ErrEmpty      = errors.New("empty image")
	ErrTooBig     = errors.New("image too big")
)

// ConfigError describes an invalid configuration value. It is always raised
// before any file I/O happens.
type ConfigError struct {
	Path    string // dotted path inside a config, eg scan.min_string_length
	Message string
}

func (e ConfigError) Error() string {
	if e.Path == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}
