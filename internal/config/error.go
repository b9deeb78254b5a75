package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found while resolving settings so they
// can be reported together.
type ConfigError struct {
	Path    string   // config file, empty when settings came only from the environment
	Missing []string // ${VAR} references with no value and no default
	Errors  []string // "field: problem" messages
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "unset environment variables: %s", strings.Join(e.Missing, ", "))
		if len(e.Errors) > 0 {
			b.WriteString("; ")
		}
	}
	if len(e.Errors) > 0 {
		fmt.Fprintf(&b, "invalid settings: %s", strings.Join(e.Errors, "; "))
	}
	return b.String()
}

// HasErrors reports whether anything was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
