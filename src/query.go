package skim

import "strings"

// editBuffer is a single rune-buffer with a cursor and a one-slot kill
// ring, shared by the match-query and command-query views. Grounded on
// the cx/input editing operations of github.com/junegunn/fzf's
// src/terminal.go doAction switch.
type editBuffer struct {
	text   []rune
	cursor int
	yanked []rune
}

func (b *editBuffer) String() string {
	return string(b.text)
}

func (b *editBuffer) InsertRune(r rune) {
	b.text = append(b.text[:b.cursor], append([]rune{r}, b.text[b.cursor:]...)...)
	b.cursor++
}

func (b *editBuffer) DeleteCharBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteCharForward deletes the rune under the cursor; reports whether
// anything was deleted, matching fzf's actDeleteChar return convention.
func (b *editBuffer) DeleteCharForward() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

func (b *editBuffer) DeleteWordBackward() {
	if b.cursor == 0 {
		return
	}
	end := b.cursor
	i := b.cursor
	for i > 0 && b.text[i-1] == ' ' {
		i--
	}
	for i > 0 && b.text[i-1] != ' ' {
		i--
	}
	b.text = append(b.text[:i], b.text[end:]...)
	b.cursor = i
}

func (b *editBuffer) BeginningOfLine() { b.cursor = 0 }
func (b *editBuffer) EndOfLine()       { b.cursor = len(b.text) }

func (b *editBuffer) ForwardChar() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

func (b *editBuffer) BackwardChar() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// KillLine removes everything from the cursor to the end of the line,
// storing it so Yank can restore it later.
func (b *editBuffer) KillLine() {
	b.yanked = append([]rune{}, b.text[b.cursor:]...)
	b.text = b.text[:b.cursor]
}

func (b *editBuffer) Yank() {
	if len(b.yanked) == 0 {
		return
	}
	b.InsertString(string(b.yanked))
}

func (b *editBuffer) InsertString(s string) {
	for _, r := range s {
		b.InsertRune(r)
	}
}

func (b *editBuffer) Clear() {
	b.text = nil
	b.cursor = 0
}

func (b *editBuffer) Set(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

// Query holds two independent edit buffers: the match query (what the
// Matcher sees) and the command query (substituted into the reader's
// command template).
type Query struct {
	match   editBuffer
	cmd     editBuffer
	baseCmd string
}

// NewQuery returns a Query whose reader command template is baseCmd,
// containing a "{}" placeholder for the command-query text.
func NewQuery(baseCmd string) *Query {
	return &Query{baseCmd: baseCmd}
}

// GetQuery returns the current match-query text.
func (q *Query) GetQuery() string { return q.match.String() }

// GetCmdQuery returns the current command-query text.
func (q *Query) GetCmdQuery() string { return q.cmd.String() }

// GetCmd returns baseCmd with "{}" replaced by the current command-query
// text.
func (q *Query) GetCmd() string {
	if !strings.Contains(q.baseCmd, "{}") {
		return q.baseCmd
	}
	return strings.ReplaceAll(q.baseCmd, "{}", q.cmd.String())
}

// MatchBuffer and CmdBuffer expose the underlying buffers for editing
// commands dispatched by the event loop.
func (q *Query) MatchBuffer() *editBuffer { return &q.match }
func (q *Query) CmdBuffer() *editBuffer   { return &q.cmd }
