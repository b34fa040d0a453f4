package model

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ConfigErrors flattens a CUE validation error into one ConfigError per
// offending path, so that every problem in a config file is reported at once
// instead of only the first one.
func ConfigErrors(err error) []ConfigError {
	if err == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []ConfigError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ce := ConfigError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		key := ce.Path + "\x00" + ce.Message
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ce)
	}

	if len(out) == 0 {
		out = append(out, ConfigError{Message: err.Error()})
	}
	return out
}
