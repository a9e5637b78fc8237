// Package algo implements the scoring engine: a stateless function that
// scores one item's text against a (mode, query) pair and returns an
// optional Rank. Grounded on github.com/junegunn/fzf's
// src/algo/algo.go (the forward/backward-scan "V1" fuzzy algorithm and
// its bonus table); the full Smith-Waterman "V2" dynamic-programming
// variant is not ported, since only a deterministic total order is
// required here, not algorithm-tuning fidelity with fzf's scoring.
package algo

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects a scoring strategy.
type Mode int

const (
	// Fuzzy matches query as an ordered (not necessarily contiguous)
	// subsequence of text.
	Fuzzy Mode = iota
	// Exact matches query as a substring of text.
	Exact
	// Regex compiles query once and tests it against each text.
	Regex
)

const (
	scoreMatch        = 16
	scoreGapStart     = -3
	scoreGapExtension = -1

	bonusBoundary            = scoreMatch / 2
	bonusNonWord             = scoreMatch / 2
	bonusCamel123            = bonusBoundary + scoreGapExtension
	bonusConsecutive         = -(scoreGapStart + scoreGapExtension)
	bonusFirstCharMultiplier = 2
)

// Offset is a half-open [start, end) match span in rune indices.
type Offset struct {
	Start, End int
}

// Result is the outcome of scoring one item: whether it matched, the
// matched span (for highlighting), and a score where higher is better.
type Result struct {
	Matched bool
	Offset  Offset
	Score   int
}

// Engine is a stateless (mode, query) pair able to score one text at a
// time. Building an Engine never fails: in Regex mode an invalid pattern
// yields an Engine that matches nothing.
type Engine struct {
	mode          Mode
	query         []rune
	caseSensitive bool
	normalize     bool
	re            *regexp.Regexp
}

var diacriticsTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// New builds an Engine. caseSensitive false lower-cases both query and
// text before comparison (smart-case is the caller's concern, not the
// engine's). normalize strips combining diacritics from both sides.
// Neither option applies in Regex mode, which matches the pattern as
// given against the unmodified text. Normalization mirrors fzf's
// pattern.go "normalize" option built on
// algo.NormalizeRunes; here it is implemented with golang.org/x/text's
// Unicode-normalization transform chain instead of a hand-rolled rune
// table.
func New(mode Mode, query string, caseSensitive bool, normalize bool) *Engine {
	q := query
	if !caseSensitive {
		q = strings.ToLower(q)
	}
	if normalize {
		q = stripDiacritics(q)
	}

	e := &Engine{
		mode:          mode,
		query:         []rune(q),
		caseSensitive: caseSensitive,
		normalize:     normalize,
	}

	if mode == Regex {
		// A regexp.Compile failure leaves e.re nil; MatchItem then always
		// reports no match rather than propagating a fatal error.
		if re, err := regexp.Compile(query); err == nil {
			e.re = re
		}
	}
	return e
}

// IsEmpty reports whether the query carries no constraint at all, in
// which case the caller should use an accept-all engine whose Rank is
// the item's id (original order).
func (e *Engine) IsEmpty() bool {
	return len(e.query) == 0
}

func (e *Engine) normalizeText(s string) string {
	if !e.caseSensitive {
		s = strings.ToLower(s)
	}
	if e.normalize {
		s = stripDiacritics(s)
	}
	return s
}

// MatchItem scores text against the engine's (mode, query). ok is false
// when there is no match.
func (e *Engine) MatchItem(text string) (result Result, ok bool) {
	switch e.mode {
	case Regex:
		return e.matchRegex(text)
	case Exact:
		return e.matchExact(text)
	default:
		return e.matchFuzzy(text)
	}
}

func (e *Engine) matchRegex(text string) (Result, bool) {
	if e.re == nil {
		return Result{}, false
	}
	loc := e.re.FindStringIndex(text)
	if loc == nil {
		return Result{}, false
	}
	start := len([]rune(text[:loc[0]]))
	end := len([]rune(text[:loc[1]]))
	return Result{Matched: true, Offset: Offset{start, end}, Score: scoreMatch * (end - start)}, true
}

func (e *Engine) matchExact(text string) (Result, bool) {
	haystack := e.normalizeText(text)
	needle := string(e.query)
	idx := strings.Index(haystack, needle)
	if idx < 0 {
		return Result{}, false
	}
	start := len([]rune(haystack[:idx]))
	end := start + len(e.query)
	return Result{Matched: true, Offset: Offset{start, end}, Score: scoreMatch * len(e.query)}, true
}

func charClass(r rune) int {
	switch {
	case unicode.IsLower(r):
		return 1
	case unicode.IsUpper(r):
		return 2
	case unicode.IsDigit(r):
		return 3
	case unicode.IsLetter(r):
		return 4
	default:
		return 0
	}
}

func bonusAt(text []rune, idx int) int {
	if idx == 0 {
		return bonusBoundary
	}
	prev, cur := charClass(text[idx-1]), charClass(text[idx])
	switch {
	case prev == 0 && cur != 0:
		return bonusBoundary
	case (prev == 1 && cur == 2) || (prev != 3 && cur == 3):
		return bonusCamel123
	case cur == 0:
		return bonusNonWord
	default:
		return 0
	}
}

// matchFuzzy finds the leftmost occurrence of query as a subsequence of
// text (forward scan), then trims the span from the left as long as
// doing so doesn't lose a character of the match (backward scan),
// accumulating a boundary/camelCase/consecutive-run bonus along the way.
// This is fzf's "V1" algorithm (see the package doc comment).
func (e *Engine) matchFuzzy(text string) (Result, bool) {
	if len(e.query) == 0 {
		return Result{Matched: true, Offset: Offset{0, 0}, Score: 0}, true
	}

	haystack := []rune(e.normalizeText(text))
	pattern := e.query

	// Forward scan: leftmost position of each pattern rune in order.
	positions := make([]int, len(pattern))
	ti := 0
	for pi, pr := range pattern {
		found := -1
		for ; ti < len(haystack); ti++ {
			if haystack[ti] == pr {
				found = ti
				ti++
				break
			}
		}
		if found < 0 {
			return Result{}, false
		}
		positions[pi] = found
	}
	start, end := positions[0], positions[len(positions)-1]+1

	// Backward scan: try to shrink the window from the left without
	// dropping any matched character, preferring the rightmost (tightest)
	// start position among equally long matches.
	lastPositions := make([]int, len(pattern))
	copy(lastPositions, positions)
	for pi := len(pattern) - 1; pi > 0; pi-- {
		limit := lastPositions[pi]
		for j := limit - 1; j >= lastPositions[pi-1]; j-- {
			if haystack[j] == pattern[pi-1] {
				lastPositions[pi-1] = j
				break
			}
		}
	}
	tightStart := lastPositions[0]
	if tightStart > start {
		start = tightStart
	}

	score, consecutiveBonus := 0, 0
	prevMatched := -2
	for i, pos := range lastPositions {
		b := bonusAt(haystack, pos)
		if i == 0 {
			b *= bonusFirstCharMultiplier
		}
		if pos == prevMatched+1 {
			consecutiveBonus += bonusConsecutive
			b += consecutiveBonus
		} else {
			consecutiveBonus = 0
		}
		score += scoreMatch + b
		prevMatched = pos
	}
	gap := (end - start) - len(pattern)
	if gap > 0 {
		score += scoreGapStart + (gap-1)*scoreGapExtension
	}

	return Result{Matched: true, Offset: Offset{start, end}, Score: score}, true
}
