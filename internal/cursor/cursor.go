// Package cursor repairs transport damage on pagination cursors.
package cursor

import "strings"

// Normalize restores a cursor mangled by URL query decoding. Store-issued
// tokens are standard base64, and any '+' inside one arrives as ' ' after
// the query string is decoded, so every space is mapped back to '+'.
func Normalize(c string) string {
	return strings.ReplaceAll(c, " ", "+")
}
