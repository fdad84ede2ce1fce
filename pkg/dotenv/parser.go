package dotenv

import (
	"strings"
)

const bom = "\ufeff"

// Parse turns dotenv text into an Environment.
// It fails with a *ParseError on the first malformed line.
func Parse(text string) (*Environment, error) {
	env := newEnvironment()

	text = strings.TrimPrefix(text, bom)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for idx, raw := range strings.Split(text, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Line: lineNo, Err: ErrMissingSeparator}
		}

		key := strings.TrimSpace(k)
		value := strings.TrimSpace(v)

		if key == "" {
			return nil, &ParseError{Line: lineNo, Err: ErrEmptyKey}
		}
		if env.Has(key) {
			return nil, &ParseError{Line: lineNo, Key: key, Err: ErrDuplicateKey}
		}

		env.set(key, value)
	}

	return env, nil
}
