// Package latex holds the text transforms and the compiler invocation that
// sit around the model call: input sanitizing, output normalization and
// pdflatex.
package latex

import "strings"

var sanitizeReplacer = strings.NewReplacer(
	"#", "sharp",
	"&", "and",
	"$", "USD",
)

// Sanitize prepares extracted resume text for embedding in a prompt. Non-ASCII
// characters are dropped and #, & and $ are replaced by words. The result is
// lossy.
func Sanitize(text string) string {
	return sanitizeReplacer.Replace(StripNonASCII(text))
}

// StripNonASCII removes every byte outside the 7-bit range, including the
// bytes of invalid UTF-8 sequences.
func StripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
