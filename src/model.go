package skim

import (
	"time"

	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/algo"
	"github.com/shuntaka9576/skim/src/util"
)

// ClearStrategy tells Drain how to reconcile the Selection's currently
// visible list with a freshly (re)started Matcher run.
type ClearStrategy int

const (
	// DontClear replaces the visible list with the current Matcher's
	// cumulative sorted output on every drain; used when nothing about
	// the underlying item set changed (a plain heartbeat tick with no
	// pending restart).
	DontClear ClearStrategy = iota
	// Clear drops the visible list immediately, before the new Matcher
	// has produced anything, so stale ranks never flash on screen; used
	// on a match-query change (on_query_change).
	Clear
	// ClearIfNotNull replaces the visible list only once the new Matcher
	// has produced at least one result; used on a command-query change
	// (on_cmd_query_change). onCmdQueryChange empties the Selection
	// before setting it, so the list stays empty until that first
	// result arrives.
	ClearIfNotNull
)

// Outcome is what core.Run / the Event Loop ultimately returns: either an
// aborted session or a final selection.
type Outcome struct {
	Aborted    bool
	Selected   []*Item
	FinalQuery string
}

// Model is the Event Loop's state: the single-owner handle over
// Query/Selection and the lifecycle of the current Reader/Matcher pair.
// Grounded on github.com/junegunn/fzf's src/terminal.go Terminal struct.
type Model struct {
	opts Options

	pool      *ItemPool
	query     *Query
	selection *Selection
	events    *util.EventBox
	runs      *RunRegistry
	previewer *Previewer

	log     *zap.Logger
	metrics *Metrics

	mode algoModeOption

	reader  *ReaderControl
	matcher *MatcherControl

	clearStrategy    ClearStrategy
	pendingClear     bool // never set; a pending ClearIfNotNull is tracked by clearStrategy alone
	editingCmdQuery  bool // true while keystrokes target Query.CmdBuffer instead of MatchBuffer

	havePreviewedItem bool
	lastPreviewedItem ItemID

	nextAppendIndex uint32 // monotonic counter for ActAppendAndSelect item IDs

	generation uint64 // bumped on every Matcher start; sent as the EvtSearchProgress value
}

// appendedItemRun is the sentinel ItemID.Run value reserved for items
// synthesized by ActAppendAndSelect, which never came from any Reader
// run. Combined with Model.nextAppendIndex this keeps every appended
// item's ItemID unique, even across repeated invocations.
const appendedItemRun = ^uint64(0)

// NewModel constructs a Model ready for Start, wiring the EventBox,
// ItemPool, Query, Selection, RunRegistry, Previewer, logger, and metrics.
func NewModel(opts Options, log *zap.Logger, metrics *Metrics) *Model {
	events := util.NewEventBox()
	return &Model{
		opts:      opts,
		pool:      NewItemPool(),
		query:     NewQuery(opts.Cmd),
		selection: NewSelection(opts.Multi),
		events:    events,
		runs:      NewRunRegistry(),
		previewer: NewPreviewer(events, log),
		log:       log,
		metrics:   metrics,
		mode:      opts.Mode,
	}
}

func (m *Model) engineSpec() EngineSpec {
	mode := algo.Fuzzy
	switch m.mode {
	case ModeExact:
		mode = algo.Exact
	case ModeRegex:
		mode = algo.Regex
	}
	return EngineSpec{
		Mode:          mode,
		Query:         m.query.GetQuery(),
		CaseSensitive: m.opts.CaseSensitive,
		Normalize:     m.opts.Normalize,
	}
}

// Start launches the first Reader+Matcher pair for the initial command
// and query.
func (m *Model) Start() {
	if m.opts.Query != "" {
		m.query.MatchBuffer().Set(m.opts.Query)
	}
	cmd := m.query.GetCmd()
	m.startReader(cmd)
	m.startMatcher()
}

// RunToCompletion runs the Reader and Matcher to completion without any
// terminal interaction and returns every surviving match, for the
// non-interactive --filter mode (filter-only output, no Event Loop).
func (m *Model) RunToCompletion() []*Item {
	m.Start()
	for {
		m.Drain()
		if m.reader != nil && m.reader.IsDone() && m.matcher != nil && m.matcher.Stopped() {
			m.Drain()
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	out := make([]*Item, m.selection.Len())
	for i := 0; i < m.selection.Len(); i++ {
		out[i] = m.selection.items[i].Item
	}
	return out
}

func (m *Model) startReader(cmd string) {
	run := m.runs.RunNumberFor(cmd)
	m.reader = RunReader(ReaderOpts{
		Cmd:         cmd,
		Read0:       m.opts.Read0,
		HeaderLines: m.opts.HeaderLines,
		Delimiter:   m.opts.Delimiter,
		WithNth:     m.opts.WithNth,
		Nth:         m.opts.Nth,
		RunNumber:   run,
	}, m.pool, m.events, m.metrics, m.log)
}

func (m *Model) startMatcher() {
	m.generation++
	gen := m.generation
	onProgress := func() {
		m.events.Set(EvtSearchProgress, gen)
	}
	m.matcher = RunMatcher(m.engineSpec(), m.pool, m.readerIsDone, onProgress, m.metrics)
}

func (m *Model) readerIsDone() bool {
	return m.reader != nil && m.reader.IsDone()
}

// Drain merges any results accumulated by the current Matcher into the
// Selection, applying the pending ClearStrategy exactly once.
func (m *Model) Drain() {
	if m.matcher == nil {
		return
	}
	// MatcherControl.IntoItems returns the full cumulative, Rank-sorted
	// result set produced so far this run (not a delta), so draining
	// replaces the visible list wholesale rather than merging onto it —
	// merging here would re-append already-visible items on every tick.
	latest := m.matcher.IntoItems()

	switch m.clearStrategy {
	case Clear:
		m.selection.ReplaceResults(latest)
		m.clearStrategy = DontClear
	case ClearIfNotNull:
		if len(latest) > 0 {
			m.selection.ReplaceResults(latest)
			m.clearStrategy = DontClear
		}
		// else: leave the Selection as it is until the new Matcher
		// produces its first batch (onCmdQueryChange has already
		// emptied it).
	default:
		m.selection.ReplaceResults(latest)
	}

	m.maybeUpdatePreview()
}

// onQueryChange restarts the Matcher against the same pool contents for
// a new match-query: kill the old Matcher, reset the pool's read cursor
// so the new one rescans everything, clear the visible list, and start
// a fresh Matcher run.
func (m *Model) onQueryChange() {
	if m.matcher != nil {
		m.matcher.Kill()
	}
	m.pool.Reset()
	m.clearStrategy = Clear
	m.startMatcher()
}

// onCmdQueryChange restarts both the Reader and the Matcher for a new
// command-query: kill both workers, drop the pool's stale contents,
// start a new Reader under a (possibly reused) run number, and start a
// fresh Matcher.
func (m *Model) onCmdQueryChange() {
	if m.matcher != nil {
		m.matcher.Kill()
	}
	if m.reader != nil {
		m.reader.Kill()
	}
	m.pool.Clear()
	// Results and marks are dropped on every command change, including
	// one whose command string maps to a previously used run number.
	m.selection.Clear()
	m.clearStrategy = ClearIfNotNull
	m.startReader(m.query.GetCmd())
	m.startMatcher()
}

// activeBuffer returns whichever edit buffer keystrokes currently target:
// the match-query buffer normally, or the command-query buffer while
// editingCmdQuery is toggled on (ActToggleCmdQueryMode).
func (m *Model) activeBuffer() *editBuffer {
	if m.editingCmdQuery {
		return m.query.CmdBuffer()
	}
	return m.query.MatchBuffer()
}

// onActiveQueryChange restarts whichever pipeline stage the active
// buffer feeds: the Matcher alone for the match query, or the Reader+
// Matcher pair for the command query.
func (m *Model) onActiveQueryChange() {
	if m.editingCmdQuery {
		m.onCmdQueryChange()
		return
	}
	m.onQueryChange()
}

// Dispatch applies one Action to the model. The done flag reports
// whether the session should end (Accept or Abort); when done, outcome
// carries the final result.
func (m *Model) Dispatch(act Action) (done bool, outcome Outcome) {
	switch act.Kind {
	case ActAbort:
		m.shutdown()
		return true, Outcome{Aborted: true, FinalQuery: m.query.GetQuery()}

	case ActAccept:
		m.shutdown()
		return true, Outcome{Selected: m.selection.GetSelectedItems(), FinalQuery: m.query.GetQuery()}

	case ActAppendAndSelect:
		text := m.query.GetQuery()
		if text == "" {
			return false, Outcome{}
		}
		id := ItemID{Run: appendedItemRun, Index: m.nextAppendIndex}
		m.nextAppendIndex++
		item := NewItem(text, id, m.opts.Delimiter, m.opts.WithNth, m.opts.Nth)
		item.UserInjected = true
		m.pool.Append([]*Item{item})
		m.selection.ActSelectItem(item)
		return false, Outcome{}

	case ActToggleMark:
		m.selection.ToggleMark(m.selection.GetCurrentItem())
		return false, Outcome{}
	case ActSelectAll:
		m.selection.SelectAll()
		return false, Outcome{}
	case ActDeselectAll:
		m.selection.DeselectAll()
		return false, Outcome{}

	case ActMoveCursorUp:
		m.selection.MoveCursor(-1)
		m.maybeUpdatePreview()
		return false, Outcome{}
	case ActMoveCursorDown:
		m.selection.MoveCursor(1)
		m.maybeUpdatePreview()
		return false, Outcome{}
	case ActPageUp:
		m.selection.PageMove(10, false)
		m.maybeUpdatePreview()
		return false, Outcome{}
	case ActPageDown:
		m.selection.PageMove(10, true)
		m.maybeUpdatePreview()
		return false, Outcome{}

	case ActRotateMode:
		m.mode = (m.mode + 1) % 3
		m.onQueryChange()
		return false, Outcome{}

	case ActTogglePreview:
		if m.opts.PreviewCmd != "" {
			m.updatePreview()
		}
		return false, Outcome{}

	case ActExecute:
		m.runExecute(act.Arg, false)
		return false, Outcome{}
	case ActExecuteSilent:
		m.runExecute(act.Arg, true)
		return false, Outcome{}

	case ActIfQueryEmpty:
		if m.query.GetQuery() == "" {
			if inner, ok := ParseAction(act.Arg); ok {
				return m.Dispatch(inner)
			}
		}
		return false, Outcome{}
	case ActIfQueryNotEmpty:
		if m.query.GetQuery() != "" {
			if inner, ok := ParseAction(act.Arg); ok {
				return m.Dispatch(inner)
			}
		}
		return false, Outcome{}

	case ActToggleCmdQueryMode:
		m.editingCmdQuery = !m.editingCmdQuery
		return false, Outcome{}

	case ActInsertRune:
		if len(act.Arg) > 0 {
			m.activeBuffer().InsertString(act.Arg)
			m.onActiveQueryChange()
		}
		return false, Outcome{}
	case ActBackwardDeleteChar, ActDeleteCharEOF:
		m.activeBuffer().DeleteCharBackward()
		m.onActiveQueryChange()
		return false, Outcome{}
	case ActDeleteCharForward:
		m.activeBuffer().DeleteCharForward()
		m.onActiveQueryChange()
		return false, Outcome{}
	case ActDeleteWordBackward:
		m.activeBuffer().DeleteWordBackward()
		m.onActiveQueryChange()
		return false, Outcome{}
	case ActBeginningOfLine:
		m.activeBuffer().BeginningOfLine()
		return false, Outcome{}
	case ActEndOfLine:
		m.activeBuffer().EndOfLine()
		return false, Outcome{}
	case ActForwardChar:
		m.activeBuffer().ForwardChar()
		return false, Outcome{}
	case ActBackwardChar:
		m.activeBuffer().BackwardChar()
		return false, Outcome{}
	case ActKillLine:
		m.activeBuffer().KillLine()
		m.onActiveQueryChange()
		return false, Outcome{}
	case ActYank:
		m.activeBuffer().Yank()
		m.onActiveQueryChange()
		return false, Outcome{}
	}
	return false, Outcome{}
}

func (m *Model) updatePreview() {
	item := m.selection.GetCurrentItem()
	if item == nil {
		return
	}
	m.previewer.Update(m.opts.PreviewCmd, TemplateContext{
		Selection: item.DisplayText,
		Query:     m.query.GetQuery(),
		CmdQuery:  m.query.GetCmdQuery(),
		Delimiter: m.opts.Delimiter,
	})
}

// maybeUpdatePreview re-runs the preview command only when the item
// under the cursor actually changed since the last run (cursor
// "settling" on a new item, not every cursor-move or heartbeat tick).
func (m *Model) maybeUpdatePreview() {
	if m.opts.PreviewCmd == "" {
		return
	}
	item := m.selection.GetCurrentItem()
	if item == nil {
		if m.havePreviewedItem {
			m.havePreviewedItem = false
			m.lastPreviewedItem = ItemID{}
		}
		return
	}
	if m.havePreviewedItem && m.lastPreviewedItem == item.ItemID {
		return
	}
	m.havePreviewedItem = true
	m.lastPreviewedItem = item.ItemID
	m.updatePreview()
}

func (m *Model) runExecute(template string, silent bool) {
	item := m.selection.GetCurrentItem()
	selection := ""
	if item != nil {
		selection = item.DisplayText
	}
	cmdline := ExpandTemplate(template, TemplateContext{
		Selection: selection,
		Query:     m.query.GetQuery(),
		CmdQuery:  m.query.GetCmdQuery(),
		Delimiter: m.opts.Delimiter,
	})
	cmd := util.ExecCommand(cmdline)
	if silent {
		go func() { _ = cmd.Run() }()
		return
	}
	// A non-silent Execute blocks the event loop until the subprocess
	// exits. The terminal UI is not suspended around it, and the
	// subprocess's stdin and stdout are not attached to the terminal.
	if err := cmd.Run(); err != nil && m.log != nil {
		m.log.Warn("execute: subprocess error", zap.Error(err))
	}
}

func (m *Model) shutdown() {
	if m.matcher != nil {
		m.matcher.Kill()
	}
	if m.reader != nil {
		m.reader.Kill()
	}
	m.previewer.Kill()
}

// RunHeartbeat blocks, draining the Matcher into the Selection every
// heartBeatInterval, until stop is closed. Intended to run on its own
// goroutine alongside the input/render loop that calls Dispatch.
func (m *Model) RunHeartbeat(stop <-chan struct{}) {
	ticker := time.NewTicker(m.heartbeatInterval())
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Drain()
			m.events.Set(EvtHeartBeat, nil)
		}
	}
}

// heartbeatInterval resolves opts.HeartbeatInterval against the engine
// default, clamping any override to a sane range.
func (m *Model) heartbeatInterval() time.Duration {
	if m.opts.HeartbeatInterval == 0 {
		return heartBeatInterval
	}
	return util.DurWithin(m.opts.HeartbeatInterval, 10*time.Millisecond, time.Second)
}

// Events exposes the shared EventBox so a renderer can redraw whenever
// EvtReadNew/EvtSearchProgress/EvtHeartBeat/EvtPreviewReady fire.
func (m *Model) Events() *util.EventBox { return m.events }

// Selection exposes the current Selection for rendering.
func (m *Model) Selection() *Selection { return m.selection }

// Query exposes the current Query for rendering.
func (m *Model) Query() *Query { return m.query }

// NumMatched and NumProcessed expose the current Matcher run's progress
// counters.
func (m *Model) NumMatched() int {
	if m.matcher == nil {
		return 0
	}
	return m.matcher.GetNumMatched()
}

func (m *Model) NumProcessed() int {
	if m.matcher == nil {
		return 0
	}
	return m.matcher.GetNumProcessed()
}
