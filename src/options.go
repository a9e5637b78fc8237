package skim

import (
	"os"
	"regexp"
	"time"
)

// Options is the CLI-independent configuration consumed by core.Run. It
// mirrors the field surface of fzf's src/options.go Options struct, but
// the flag/--bind DSL parsing that populates it is deliberately minimal
// (a thin flag.FlagSet in main.go) — full argument-parsing depth is out
// of scope.
type Options struct {
	// Source
	Cmd         string
	Read0       bool
	HeaderLines int

	// Matching
	Mode          algoModeOption
	Query         string
	CaseSensitive bool
	Normalize     bool
	Nth           []Range
	WithNth       []Range
	Delimiter     *regexp.Regexp

	// Selection
	Multi bool

	// Preview
	PreviewCmd    string
	PreviewWindow PreviewWindow

	// Layout
	Height       string
	MinHeight    int
	Margin       [4]int // top, right, bottom, left
	ReverseLayout bool
	InlineInfo    bool

	// Output
	FilterOnly bool
	Print0     bool
	PrintQuery bool
	PrintCmd   bool

	// Ambient
	LogLevel   string
	MetricsAddr string

	// HeartbeatInterval overrides act_heart_beat's tick period; zero means
	// "use the engine default" (heartBeatInterval in constants.go). Any
	// non-zero value is clamped to [10ms, 1s] by Model, so a misconfigured
	// value can't spin the event loop or make it feel unresponsive.
	HeartbeatInterval time.Duration
}

// algoModeOption re-exports the match-mode selector so main.go can
// populate it from the -e/-regex flags without importing the algo
// package directly.
type algoModeOption int

const (
	ModeFuzzy algoModeOption = iota
	ModeExact
	ModeRegex
)

// PreviewWindow summarizes --preview-window's position/size, omitting
// the scroll-offset expression grammar (out of scope).
type PreviewWindow struct {
	Hidden bool
	Right  bool // false = below
	Size   int  // percentage (DefaultOptions sets 50)
}

// DefaultOptions returns an Options populated with skim's conventional
// defaults, mirroring fzf's option defaults in src/options.go.
func DefaultOptions() Options {
	return Options{
		Cmd:        DefaultCommand,
		Delimiter:  DefaultDelimiter,
		Height:     "100%",
		MinHeight:  3,
		InlineInfo: false,
		LogLevel:   envOr("SKIM_LOG_LEVEL", "warn"),
		MetricsAddr: os.Getenv("SKIM_METRICS_ADDR"),
		PreviewWindow: PreviewWindow{
			Right: true,
			Size:  50,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultKeymap returns the fixed key-to-action bindings used because
// the --bind DSL parser is out of scope. It mirrors fzf's built-in
// default keymap (src/terminal.go defaultKeymap) closely enough that a
// user coming from fzf finds it familiar.
func DefaultKeymap() map[string]Action {
	return map[string]Action{
		"Enter":      {Kind: ActAccept},
		"Esc":        {Kind: ActAbort},
		"CtrlC":      {Kind: ActAbort},
		"CtrlG":      {Kind: ActAbort},
		"CtrlU":      {Kind: ActKillLine},
		"CtrlA":      {Kind: ActBeginningOfLine},
		"CtrlE":      {Kind: ActEndOfLine},
		"CtrlW":      {Kind: ActDeleteWordBackward},
		"CtrlY":      {Kind: ActYank},
		"Backspace":  {Kind: ActDeleteCharEOF},
		"Delete":     {Kind: ActDeleteCharForward},
		"Left":       {Kind: ActBackwardChar},
		"Right":      {Kind: ActForwardChar},
		"Up":         {Kind: ActMoveCursorUp},
		"Down":       {Kind: ActMoveCursorDown},
		"CtrlP":      {Kind: ActMoveCursorUp},
		"CtrlN":      {Kind: ActMoveCursorDown},
		"PgUp":       {Kind: ActPageUp},
		"PgDn":       {Kind: ActPageDown},
		"Tab":        {Kind: ActToggleMark},
		"CtrlR":      {Kind: ActRotateMode},
		"CtrlT":      {Kind: ActTogglePreview},
		"CtrlSlash":  {Kind: ActTogglePreview},
		"CtrlQ":      {Kind: ActToggleCmdQueryMode},
	}
}
