package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded value against the contract.
type Validator[T any] func(*T) error

// ExtractJSON decodes the first JSON object in raw model text into T. Code
// fences, surrounding prose, comments and ".5"-style numbers are tolerated;
// unknown fields are not.
func ExtractJSON[T any](raw string, validate Validator[T]) (*T, error) {
	block := firstObject(stripFences(raw))
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrGenerationMalformed)
	}
	block = fixLeadingDecimals(stripComments(block))

	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(block)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
	}

	if validate != nil {
		if err := validate(&out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
		}
	}
	return &out, nil
}

func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// scanner tracks whether a byte position is inside a JSON string.
type scanner struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal.
func (sc *scanner) step(c byte) bool {
	switch {
	case sc.escaped:
		sc.escaped = false
		return true
	case sc.inString && c == '\\':
		sc.escaped = true
		return true
	case c == '"':
		sc.inString = !sc.inString
		return true
	}
	return sc.inString
}

func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var sc scanner
	depth := 0
	for i := start; i < len(s); i++ {
		if sc.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var sc scanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func fixLeadingDecimals(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var sc scanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !sc.step(c) && c == '.' && i+1 < len(s) && isDigit(s[i+1]) && numberMayStart(lastNonSpace(s, i-1)) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
			continue
		}
		return s[i]
	}
	return 0
}

func numberMayStart(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
