package utils

import (
	"strings"
)

// NormalizeStyle trims a style tag and collapses inner whitespace runs to one space.
func NormalizeStyle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
