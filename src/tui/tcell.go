package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ScreenRenderer is the concrete Renderer backed by
// github.com/gdamore/tcell/v2, replacing fzf's own multi-backend
// tui.FullscreenRenderer (ncurses/termbox/tcell/"light") with a single
// implementation. Grounded on the Init/Draw/Close shape of
// src/tui/tcell.go's FullscreenRenderer.
type ScreenRenderer struct {
	screen tcell.Screen
	prompt string
}

// NewScreenRenderer returns a ScreenRenderer; Init must be called before
// Draw or PollKey.
func NewScreenRenderer() *ScreenRenderer {
	return &ScreenRenderer{}
}

// Init allocates and initializes the terminal screen.
func (r *ScreenRenderer) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: allocate screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	r.screen = screen
	return nil
}

var (
	stylePlain   = tcell.StyleDefault
	styleCurrent = tcell.StyleDefault.Reverse(true)
	styleMarked  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Draw paints one frame: the result list (bottom-to-top above the query
// line, matching fzf's default non-reverse layout) and the query line
// with its cursor.
func (r *ScreenRenderer) Draw(f Frame) {
	if r.screen == nil {
		return
	}
	r.screen.Clear()
	width, height := r.screen.Size()
	if height < 1 {
		return
	}

	statusRow := height - 1
	status := fmt.Sprintf("  %d/%d", f.NumMatched, f.NumTotal)
	drawString(r.screen, 0, statusRow, width, status, stylePlain)

	promptRow := statusRow - 1
	if promptRow >= 0 {
		line := f.Prompt + f.Query
		drawString(r.screen, 0, promptRow, width, line, stylePlain)
		r.screen.ShowCursor(runewidth.StringWidth(f.Prompt)+runewidth.StringWidth(f.Query[:minInt(len(f.Query), f.QueryCursor)]), promptRow)
	}

	for i, line := range f.Lines {
		row := promptRow - 1 - i
		if row < 0 {
			break
		}
		style := stylePlain
		if line.Marked {
			style = styleMarked
		}
		if line.Current {
			style = styleCurrent
		}
		prefix := "  "
		if line.Current {
			prefix = "> "
		}
		drawString(r.screen, 0, row, width, prefix+line.Text, style)
	}

	r.screen.Show()
}

// Close tears down the terminal screen.
func (r *ScreenRenderer) Close() {
	if r.screen != nil {
		r.screen.Fini()
	}
}

// PollKey blocks for the next key event and translates it to a key name
// matching skim's DefaultKeymap (e.g. "Enter", "CtrlC", "Up") plus, for
// a plain printable rune, the rune itself. Resize/mouse events return
// ("", 0) and the caller should simply redraw.
func (r *ScreenRenderer) PollKey() (name string, ch rune) {
	ev := r.screen.PollEvent()
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return "", 0
	}
	if name, ok := namedKeys[key.Key()]; ok {
		return name, 0
	}
	if key.Key() == tcell.KeyRune {
		return "", key.Rune()
	}
	return "", 0
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyEscape:     "Esc",
	tcell.KeyCtrlC:      "CtrlC",
	tcell.KeyCtrlG:      "CtrlG",
	tcell.KeyCtrlU:      "CtrlU",
	tcell.KeyCtrlA:      "CtrlA",
	tcell.KeyCtrlE:      "CtrlE",
	tcell.KeyCtrlW:      "CtrlW",
	tcell.KeyCtrlY:      "CtrlY",
	tcell.KeyCtrlP:      "CtrlP",
	tcell.KeyCtrlN:      "CtrlN",
	tcell.KeyCtrlR:      "CtrlR",
	tcell.KeyCtrlT:      "CtrlT",
	tcell.KeyCtrlQ:      "CtrlQ",
	tcell.KeyCtrlUnderscore: "CtrlSlash",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyPgUp:       "PgUp",
	tcell.KeyPgDn:       "PgDn",
	tcell.KeyTab:        "Tab",
}

func drawString(screen tcell.Screen, x, y, maxWidth int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if col+w > maxWidth {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col += w
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
