// Package utils holds tiny helpers shared across layers. Nothing in here
// may import domain or transport packages.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// unparseable. Deliberately no trimming: the callers feed query parameters
// through here, and a value with stray whitespace is a malformed value.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
