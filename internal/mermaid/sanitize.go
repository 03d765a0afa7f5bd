package mermaid

import "strings"

var idReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	".", "_",
	"-", "_",
	" ", "_",
	"(", "_",
	")", "_",
	"[", "_",
	"]", "_",
	"{", "_",
	"}", "_",
	":", "_",
	",", "_",
)

// SanitizeID converts a string into a safe mermaid node identifier.
func SanitizeID(s string) string {
	return idReplacer.Replace(s)
}

// EscapeLabel escapes characters that have special meaning in mermaid
// labels.
func EscapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, "|", "#vert;")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// sanitizeMember keeps class/entity member tokens to word characters,
// since mermaid member lines do not support escaping.
func sanitizeMember(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '.', r == '/', r == ' ', r == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}
