package schema

import (
	"fmt"
	"strings"
)

// ParseForeignKey splits a "<Type>.<column>" reference.
func ParseForeignKey(ref string) (table, column string, err error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("%w: %q (want \"Type.column\")", ErrMalformedForeignKey, ref)
	}

	return parts[0], parts[1], nil
}

// FormatForeignKey builds a "<Type>.<column>" reference.
func FormatForeignKey(table, column string) string {
	return table + "." + column
}
