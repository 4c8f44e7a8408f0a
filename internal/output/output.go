// Package output renders normalized tool results for the CLI. The HTTP
// surface always returns JSON; these formatters are a presentation layer on
// top of the same records.
package output

import "fmt"

// Formatter renders a tool result as text.
type Formatter interface {
	Format(result any) (string, error)
}

// New returns the formatter for the given format name.
func New(format string) (Formatter, error) {
	switch format {
	case "table", "":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected table or json)", format)
	}
}
