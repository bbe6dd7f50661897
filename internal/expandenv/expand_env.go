// Package expandenv replaces ${key} in byte slices with the env value of key.
package expandenv

import (
	"bytes"
	"os"
)

// ExpandEnv replaces every ${var} in s with the value of the environment
// variable var. A bare $var is left alone since values such as passwords may
// contain '$'. ${} expands to nothing, and a ${ that is never closed, or whose
// name holds a space, newline or quote, is kept verbatim.
func ExpandEnv(s []byte) []byte {
	if !bytes.Contains(s, []byte("${")) {
		return s
	}
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		start := bytes.Index(s, []byte("${"))
		if start < 0 {
			break
		}
		out = append(out, s[:start]...)
		name, n, ok := envName(s[start+2:])
		if !ok {
			out = append(out, s[start:start+2]...)
			s = s[start+2:]
			continue
		}
		out = append(out, os.Getenv(string(name))...)
		s = s[start+2+n:]
	}
	return append(out, s...)
}

// envName scans the name following "${" up to the closing brace.
// It returns the name, the bytes consumed including '}', and whether a valid
// reference was found.
func envName(s []byte) ([]byte, int, bool) {
	for i, c := range s {
		switch c {
		case ' ', '\n', '"':
			return nil, 0, false
		case '}':
			return s[:i], i + 1, true
		}
	}
	return nil, 0, false
}
