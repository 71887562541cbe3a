package latex

import (
	"regexp"
	"strings"
)

var (
	dvipsMisspelling = regexp.MustCompile(`dvipsyn|dvipsypes|dvipsines|dvipshade`)
	colorPackage     = regexp.MustCompile(`\\usepackage\[usenames,dvips[^\]]*\]\{color\}`)
	usenamesJunk     = regexp.MustCompile(`(\\usepackage\[usenames,)[^\]]*?,dvipsnames\]`)
	headingStart     = regexp.MustCompile(`\\(?:section|subsection|subsubsection)\*?\{`)
	customClass      = regexp.MustCompile(`\\documentclass\{(developercv|resume|cv)\}`)
)

// Normalize patches the failure modes commonly seen in model generated LaTeX.
// It is not a parser: anything it does not recognise passes through.
func Normalize(raw string) string {
	out := StripNonASCII(raw)
	out = strings.ReplaceAll(out, "```latex", "")
	out = strings.ReplaceAll(out, "```", "")
	out = dvipsMisspelling.ReplaceAllLiteralString(out, "dvipsnames")
	out = colorPackage.ReplaceAllLiteralString(out, `\usepackage[usenames,dvipsnames]{color}`)
	out = usenamesJunk.ReplaceAllString(out, "${1}dvipsnames]")
	out = EscapeHeadingAmpersands(out)
	out = customClass.ReplaceAllLiteralString(out, `\documentclass{article}`)
	return out
}

// EscapeHeadingAmpersands rewrites bare & to \& inside the argument of
// \section, \subsection and \subsubsection, starred or not. The argument runs
// to the matching closing brace, so nested groups are covered. Already
// escaped \& is kept.
func EscapeHeadingAmpersands(s string) string {
	locs := headingStart.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	done := 0
	for _, loc := range locs {
		open := loc[1]
		if loc[0] < done {
			continue
		}
		end := matchingBrace(s, open)
		if end < 0 {
			continue
		}
		b.WriteString(s[done:open])
		b.WriteString(escapeAmpersands(s[open:end]))
		done = end
	}
	b.WriteString(s[done:])
	return b.String()
}

// matchingBrace returns the index of the } closing a group whose body starts
// at i, or -1 when the group is unbalanced. Escaped braces do not count.
func matchingBrace(s string, i int) int {
	depth := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// escapeAmpersands escapes every & preceded by an even run of backslashes.
func escapeAmpersands(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == '&' {
			n := 0
			for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
				n++
			}
			if n%2 == 0 {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
