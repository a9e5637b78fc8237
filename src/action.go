package skim

import (
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// ActionKind enumerates every event-loop-recognized action variant.
// Events that don't carry a payload use ActionKind alone;
// Execute/ExecuteSilent/Accept/ActIfQueryEmpty/ActIfQueryNotEmpty carry
// a string argument, modeled as Action.Arg rather than a Go interface{}
// since it is a tagged union of the argument shapes actually produced.
type ActionKind int

const (
	ActIgnore ActionKind = iota
	ActAbort
	ActAccept
	ActAppendAndSelect
	ActDeleteCharEOF
	ActTogglePreview
	ActRotateMode
	ActExecute
	ActExecuteSilent
	ActIfQueryEmpty
	ActIfQueryNotEmpty
	ActToggleCmdQueryMode

	// Query-editing actions, dispatched to Query's edit buffers.
	ActInsertRune
	ActBackwardDeleteChar
	ActDeleteCharForward
	ActDeleteWordBackward
	ActBeginningOfLine
	ActEndOfLine
	ActForwardChar
	ActBackwardChar
	ActKillLine
	ActYank

	// Selection actions.
	ActMoveCursorUp
	ActMoveCursorDown
	ActPageUp
	ActPageDown
	ActToggleMark
	ActSelectAll
	ActDeselectAll
)

// Action is one dispatchable unit of behavior: a kind plus an optional
// string argument (the command for Execute*, the key for Accept, the
// nested action spec for ActIfQueryEmpty/NotEmpty, or the literal rune
// to insert for ActInsertRune).
type Action struct {
	Kind ActionKind
	Arg  string
}

// ParseAction parses an action specification such as
// "execute(vim {})", "if-query-empty(abort)", or a bare name like
// "accept", into an Action. The text between the outer parentheses is
// kept verbatim as Arg; it is not tokenized.
func ParseAction(spec string) (Action, bool) {
	spec = strings.TrimSpace(spec)
	name, arg := spec, ""
	if open := strings.IndexByte(spec, '('); open >= 0 && strings.HasSuffix(spec, ")") {
		name = spec[:open]
		arg = spec[open+1 : len(spec)-1]
	}

	switch name {
	case "abort":
		return Action{Kind: ActAbort}, true
	case "accept":
		return Action{Kind: ActAccept, Arg: arg}, true
	case "append-and-select":
		return Action{Kind: ActAppendAndSelect}, true
	case "backward-delete-char/eof":
		return Action{Kind: ActDeleteCharEOF}, true
	case "toggle-preview":
		return Action{Kind: ActTogglePreview}, true
	case "rotate-mode":
		return Action{Kind: ActRotateMode}, true
	case "execute":
		return Action{Kind: ActExecute, Arg: arg}, true
	case "execute-silent":
		return Action{Kind: ActExecuteSilent, Arg: arg}, true
	case "if-query-empty":
		return Action{Kind: ActIfQueryEmpty, Arg: arg}, true
	case "if-query-not-empty":
		return Action{Kind: ActIfQueryNotEmpty, Arg: arg}, true
	case "toggle-cmd-query-mode":
		return Action{Kind: ActToggleCmdQueryMode}, true
	case "backward-delete-char":
		return Action{Kind: ActBackwardDeleteChar}, true
	case "delete-char":
		return Action{Kind: ActDeleteCharForward}, true
	case "backward-kill-word":
		return Action{Kind: ActDeleteWordBackward}, true
	case "beginning-of-line":
		return Action{Kind: ActBeginningOfLine}, true
	case "end-of-line":
		return Action{Kind: ActEndOfLine}, true
	case "forward-char":
		return Action{Kind: ActForwardChar}, true
	case "backward-char":
		return Action{Kind: ActBackwardChar}, true
	case "kill-line":
		return Action{Kind: ActKillLine}, true
	case "yank":
		return Action{Kind: ActYank}, true
	case "up":
		return Action{Kind: ActMoveCursorUp}, true
	case "down":
		return Action{Kind: ActMoveCursorDown}, true
	case "page-up":
		return Action{Kind: ActPageUp}, true
	case "page-down":
		return Action{Kind: ActPageDown}, true
	case "toggle":
		return Action{Kind: ActToggleMark}, true
	case "select-all":
		return Action{Kind: ActSelectAll}, true
	case "deselect-all":
		return Action{Kind: ActDeselectAll}, true
	default:
		return Action{}, false
	}
}

// splitShellArgs tokenizes s the way a POSIX shell would, using
// go-shellwords (fzf's own dependency for bind-argument text). ParseAction
// and the Execute path do not call it; Execute commands are handed to
// the shell verbatim.
func splitShellArgs(s string) ([]string, error) {
	parser := shellwords.NewParser()
	return parser.Parse(s)
}
