package store

import (
	"fmt"
	"strings"
)

// toPostgresParams numbers ? placeholders as $1, $2, ... Question marks
// inside single-quoted literals are left alone.
func toPostgresParams(sql string) string {
	if sql == "" {
		return ""
	}

	var (
		c       = 0
		quoted  bool
		builder strings.Builder
	)

	for _, b := range sql {
		if b == '\'' {
			quoted = !quoted
		}
		// check for placeholder
		if b == '?' && !quoted {
			fmt.Fprintf(&builder, "$%d", c+1)
			c += 1
			continue
		}
		builder.WriteRune(b)
	}

	return builder.String()
}
