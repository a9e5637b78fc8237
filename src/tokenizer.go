package skim

import (
	"regexp"
	"strings"
)

// DefaultDelimiter is the AWK-style field splitter used when the user
// does not supply --delimiter.
var DefaultDelimiter = regexp.MustCompile(`[\t\n ]+`)

// Range is a 1-based, inclusive field range used by --nth/--with-nth and
// by the {N}/{N..M} command-template placeholders. A zero bound means
// "open" on that side: Begin==0 means "from the first field", End==0
// means "to the last field". Grounded on src/tokenizer.go's Range/
// ParseRange.
type Range struct {
	Begin int
	End   int
}

// ParseRange parses a field-index expression such as "2", "2..", "..3",
// "2..4", or "..".
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == ".." {
		return Range{0, 0}, true
	}
	if idx := strings.Index(s, ".."); idx >= 0 {
		beginStr, endStr := s[:idx], s[idx+2:]
		begin, end := 0, 0
		if beginStr != "" {
			if v, ok := atoiNonZero(beginStr); ok {
				begin = v
			} else {
				return Range{}, false
			}
		}
		if endStr != "" {
			if v, ok := atoiNonZero(endStr); ok {
				end = v
			} else {
				return Range{}, false
			}
		}
		return Range{begin, end}, true
	}
	v, ok := atoiNonZero(s)
	if !ok {
		return Range{}, false
	}
	return Range{v, v}, true
}

func atoiNonZero(s string) (int, bool) {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, n != 0
}

// tokenize splits text on delimiter, keeping each token contiguous with
// its trailing delimiter run, mirroring the AWK convention that join(nth
// fields) recreates substrings of the original line verbatim.
func tokenize(text string, delimiter *regexp.Regexp) []string {
	if delimiter == nil {
		delimiter = DefaultDelimiter
	}
	locs := delimiter.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	tokens := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		tokens = append(tokens, text[prev:loc[1]])
		prev = loc[1]
	}
	if prev < len(text) {
		tokens = append(tokens, text[prev:])
	}
	return tokens
}

// fieldIndex resolves a possibly-negative 1-based field index against n
// total fields; 0 is treated by the caller as "open".
func fieldIndex(i, n int) int {
	if i < 0 {
		return n + i + 1
	}
	return i
}

// ProjectFields extracts and rejoins the field ranges named by ranges
// from text, tokenized on delimiter. Used for both the with_nth display
// projection and the nth match-scope restriction.
func ProjectFields(text string, delimiter *regexp.Regexp, ranges []Range) string {
	tokens := tokenize(text, delimiter)
	n := len(tokens)

	var b strings.Builder
	for _, r := range ranges {
		begin, end := r.Begin, r.End
		if begin == 0 {
			begin = 1
		}
		if end == 0 {
			end = n
		}
		begin = fieldIndex(begin, n)
		end = fieldIndex(end, n)
		begin = clampField(begin, n)
		end = clampField(end, n)
		for i := begin; i <= end && i <= n; i++ {
			if i < 1 {
				continue
			}
			b.WriteString(tokens[i-1])
		}
	}
	// Drop the delimiter run trailing the last projected field.
	out := b.String()
	if delimiter == nil {
		delimiter = DefaultDelimiter
	}
	if locs := delimiter.FindAllStringIndex(out, -1); len(locs) > 0 && locs[len(locs)-1][1] == len(out) {
		out = out[:locs[len(locs)-1][0]]
	}
	return out
}

func clampField(i, n int) int {
	if i < 1 {
		return 1
	}
	if i > n {
		return n
	}
	return i
}
