package skim

import "regexp"

// ansiEscape matches a CSI-style ANSI escape sequence. Full SGR color-run
// extraction is out of scope; this is only used to strip escapes when
// deriving DisplayText.
var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// ItemID is the stable identity of an Item across matcher restarts: a
// pair of (run number, index within that run).
type ItemID struct {
	Run   uint64
	Index uint32
}

// Item is one candidate line plus its derived projections. Items are
// immutable after construction and are shared by reference across the
// Reader, Matcher, and Selection.
type Item struct {
	RawText     string
	DisplayText string
	MatchText   string

	ItemID       ItemID
	UserInjected bool
}

// NewItem builds an Item, applying ANSI stripping and an optional
// with_nth field projection to derive DisplayText, and an optional nth
// projection to derive MatchText. delimiter may be nil, meaning the
// default AWK-style whitespace splitting is used.
func NewItem(raw string, id ItemID, delimiter *regexp.Regexp, withNth, nth []Range) *Item {
	stripped := StripANSI(raw)

	display := stripped
	if len(withNth) > 0 {
		display = ProjectFields(stripped, delimiter, withNth)
	}

	match := display
	if len(nth) > 0 {
		match = ProjectFields(display, delimiter, nth)
	}

	return &Item{
		RawText:     raw,
		DisplayText: display,
		MatchText:   match,
		ItemID:      id,
	}
}

// Rank is the total-ordered sort key for a MatchedItem: (-score,
// matched_length, run, index), ascending.
type Rank struct {
	NegScore     int64
	MatchedLen   int64
	Run          uint64
	Index        uint32
}

// Less reports whether r sorts before o.
func (r Rank) Less(o Rank) bool {
	if r.NegScore != o.NegScore {
		return r.NegScore < o.NegScore
	}
	if r.MatchedLen != o.MatchedLen {
		return r.MatchedLen < o.MatchedLen
	}
	if r.Run != o.Run {
		return r.Run < o.Run
	}
	return r.Index < o.Index
}

// MatchedItem pairs an Item with the Rank it earned under the current
// (query, mode).
type MatchedItem struct {
	Item *Item
	Rank Rank
}

// AcceptAllRank returns the Rank used when the query is empty: display
// order is preserved because the Rank degenerates to the item's id.
func AcceptAllRank(id ItemID) Rank {
	return Rank{NegScore: 0, MatchedLen: 0, Run: id.Run, Index: id.Index}
}
