// Package tui renders a Model (see the top-level skim package) to a
// terminal. The full terminal-primitive surface fzf's own src/tui
// package covers — cursor positioning, alternate-screen handling, raw
// mode, multiple backends (ncurses/termbox/tcell/"light") — is narrowed
// here to exactly one concrete backend (tcell) behind a small Renderer
// interface, grounded on the shape of fzf's own tui.Renderer
// (src/tui/tui.go).
package tui

// Line is one row of already-projected display text (width truncation
// is left to the Renderer) plus whether it is the line under the cursor
// and whether its item is
// marked, enough for a Renderer to paint a frame without knowing
// anything about Item/Selection internals.
type Line struct {
	Text    string
	Current bool
	Marked  bool
}

// Frame is everything a Renderer needs to draw one screen: every result
// line in rank order (the Renderer draws as many as fit), the query
// line's text and cursor column, and a status summary.
type Frame struct {
	Lines       []Line
	Query       string
	QueryCursor int
	NumMatched  int
	NumTotal    int
	Prompt      string
}

// Renderer draws Frames to a terminal and reports raw key input back to
// the caller. Implementations must be safe to call from a single
// goroutine only (the Event Loop owns the terminal).
type Renderer interface {
	Init() error
	Draw(f Frame)
	Close()
}

// NopRenderer discards every Draw call; used in tests and headless/
// --filter runs where no terminal is attached.
type NopRenderer struct{}

// Init is a no-op that always succeeds.
func (NopRenderer) Init() error { return nil }

// Draw discards f.
func (NopRenderer) Draw(f Frame) {}

// Close is a no-op.
func (NopRenderer) Close() {}
