package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// Quoted is a command argument written in double quotes, with inner double
// quotes escaped by a backslash.
type Quoted string

// EscapeQuotes returns s with every double quote preceded by a backslash.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Command formats a trace command line that can be piped into the amalgam
// command line interpreter. Booleans are lower case, Quoted values are quoted,
// byte slices and everything else are written verbatim.
func Command(name string, args ...any) string {
	var b strings.Builder
	b.WriteString(name)
	for _, arg := range args {
		b.WriteByte(' ')
		switch v := arg.(type) {
		case Quoted:
			b.WriteByte('"')
			b.WriteString(EscapeQuotes(string(v)))
			b.WriteByte('"')
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case []byte:
			b.Write(v)
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
