package skim

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/util"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	opts := DefaultOptions()
	opts.Delimiter = DefaultDelimiter
	m := NewModel(opts, zap.NewNop(), nil)
	t.Cleanup(m.shutdown)
	return m
}

func seedPool(m *Model, words ...string) {
	batch := make([]*Item, len(words))
	for i, w := range words {
		batch[i] = NewItem(w, ItemID{Run: 1, Index: uint32(i)}, nil, nil, nil)
	}
	m.pool.Append(batch)
}

// drainUntil polls Drain() until predicate holds or timeout elapses.
func drainUntil(t *testing.T, m *Model, predicate func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		m.Drain()
		if predicate() {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("condition never became true; selection=%v", namesOf(m.selection))
		default:
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func namesOf(s *Selection) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.items[i].Item.RawText
	}
	return out
}

func TestModelQueryEditNarrowsAndWidens(t *testing.T) {
	// Typing narrows the visible set to matches; deleting back widens it,
	// restoring original pool order once the query is empty again.
	m := newTestModel(t)
	seedPool(m, "foo", "bar")
	m.startMatcher()
	drainUntil(t, m, func() bool { return m.selection.Len() == 2 }, time.Second)

	m.Dispatch(Action{Kind: ActInsertRune, Arg: "f"})
	drainUntil(t, m, func() bool {
		return m.selection.Len() == 1 && m.selection.items[0].Item.RawText == "foo"
	}, time.Second)

	m.Dispatch(Action{Kind: ActInsertRune, Arg: "o"})
	drainUntil(t, m, func() bool {
		return m.selection.Len() == 1 && m.selection.items[0].Item.RawText == "foo"
	}, time.Second)

	m.Dispatch(Action{Kind: ActBackwardDeleteChar})
	m.Dispatch(Action{Kind: ActBackwardDeleteChar})
	drainUntil(t, m, func() bool { return m.selection.Len() == 2 }, time.Second)

	got := namesOf(m.selection)
	if got[0] != "foo" || got[1] != "bar" {
		t.Errorf("expected original order [foo bar], got %v", got)
	}
}

// appendedPresent reports whether an item with RawText raw is still in
// the visible result list, not merely marked.
func appendedPresent(s *Selection, raw string) bool {
	for _, mi := range s.items {
		if mi.Item.RawText == raw {
			return true
		}
	}
	return false
}

func TestModelAppendAndSelectSurvivesQueryChange(t *testing.T) {
	m := newTestModel(t)
	m.Dispatch(Action{Kind: ActInsertRune, Arg: "custom"})
	if m.query.GetQuery() != "custom" {
		t.Fatalf("expected query %q, got %q", "custom", m.query.GetQuery())
	}

	m.Dispatch(Action{Kind: ActAppendAndSelect})
	if m.selection.GetNumSelected() != 1 {
		t.Fatalf("expected 1 selected item, got %d", m.selection.GetNumSelected())
	}
	cur := m.selection.GetCurrentItem()
	if cur == nil || cur.RawText != "custom" {
		t.Fatalf("expected current item to be the appended 'custom' item, got %+v", cur)
	}
	if m.pool.Len() != 1 {
		t.Fatalf("expected the appended item to land in the pool, got pool len %d", m.pool.Len())
	}

	m.Dispatch(Action{Kind: ActInsertRune, Arg: "2"})
	// Drive several heartbeat ticks so the new Matcher run has time to
	// finish and a buggy Drain would have a chance to drop the appended
	// item from the visible list.
	for i := 0; i < 50; i++ {
		m.Drain()
		time.Sleep(2 * time.Millisecond)
	}
	if m.selection.GetNumSelected() != 1 {
		t.Errorf("expected mark to survive a query change, got %d marks", m.selection.GetNumSelected())
	}
	if !appendedPresent(m.selection, "custom") {
		t.Errorf("expected the appended item to still be present in the visible list after Drain, got %v", namesOf(m.selection))
	}
}

func TestModelAppendAndSelectProducesUniqueIDs(t *testing.T) {
	m := newTestModel(t)
	m.Dispatch(Action{Kind: ActInsertRune, Arg: "x"})

	m.Dispatch(Action{Kind: ActAppendAndSelect})
	first := m.selection.GetCurrentItem()
	if first == nil {
		t.Fatal("expected an item after the first append-and-select")
	}
	firstID := first.ItemID

	m.Dispatch(Action{Kind: ActAppendAndSelect})

	if m.pool.Len() != 2 {
		t.Fatalf("expected 2 items in the pool after two appends, got %d", m.pool.Len())
	}
	if m.selection.GetNumSelected() != 2 {
		t.Fatalf("expected both appended items marked, got %d", m.selection.GetNumSelected())
	}

	var secondID ItemID
	found := false
	for id := range m.selection.marked {
		if id != firstID {
			secondID = id
			found = true
		}
	}
	if !found {
		t.Fatal("expected a second, distinct ItemID among marked items")
	}
	if firstID == secondID {
		t.Errorf("expected distinct ItemIDs across two append-and-select invocations, both were %+v", firstID)
	}
	if firstID.Run != appendedItemRun || secondID.Run != appendedItemRun {
		t.Errorf("expected appended items to use the sentinel run number, got %+v and %+v", firstID, secondID)
	}
}

func TestModelRotateModeCyclesAndRestartsMatcher(t *testing.T) {
	m := newTestModel(t)
	if m.mode != ModeFuzzy {
		t.Fatalf("expected initial mode Fuzzy, got %v", m.mode)
	}
	before := m.generation

	m.Dispatch(Action{Kind: ActRotateMode})
	if m.mode != ModeExact {
		t.Errorf("expected mode Exact after one rotate, got %v", m.mode)
	}
	if m.generation == before {
		t.Error("expected RotateMode to restart the matcher (bump generation)")
	}

	m.Dispatch(Action{Kind: ActRotateMode})
	if m.mode != ModeRegex {
		t.Errorf("expected mode Regex after two rotates, got %v", m.mode)
	}

	m.Dispatch(Action{Kind: ActRotateMode})
	if m.mode != ModeFuzzy {
		t.Errorf("expected mode to wrap back to Fuzzy after three rotates, got %v", m.mode)
	}
}

func TestModelAcceptReturnsSelectedItems(t *testing.T) {
	m := newTestModel(t)
	seedPool(m, "apple", "banana")
	m.startMatcher()
	drainUntil(t, m, func() bool { return m.selection.Len() == 2 }, time.Second)

	done, outcome := m.Dispatch(Action{Kind: ActAccept})
	if !done {
		t.Fatal("expected Accept to end the session")
	}
	if outcome.Aborted {
		t.Error("expected Accept not to report Aborted")
	}
	if len(outcome.Selected) != 1 || outcome.Selected[0].RawText != "apple" {
		t.Errorf("expected accept with no marks to select the current item, got %+v", outcome.Selected)
	}
}

func TestModelAbortReportsAborted(t *testing.T) {
	m := newTestModel(t)
	done, outcome := m.Dispatch(Action{Kind: ActAbort})
	if !done || !outcome.Aborted {
		t.Fatalf("expected Abort to end the session with Aborted=true, got done=%v outcome=%+v", done, outcome)
	}
}

func TestModelIfQueryEmptyRedispatches(t *testing.T) {
	m := newTestModel(t)
	done, outcome := m.Dispatch(Action{Kind: ActIfQueryEmpty, Arg: "abort"})
	if !done || !outcome.Aborted {
		t.Fatalf("expected if-query-empty(abort) to abort on an empty query, got done=%v outcome=%+v", done, outcome)
	}
}

func TestModelIfQueryNotEmptySkipsOnEmptyQuery(t *testing.T) {
	m := newTestModel(t)
	done, _ := m.Dispatch(Action{Kind: ActIfQueryNotEmpty, Arg: "abort"})
	if done {
		t.Error("expected if-query-not-empty(abort) to be a no-op on an empty query")
	}
}

func TestModelToggleCmdQueryModeEditsCommandAndRestartsReader(t *testing.T) {
	opts := DefaultOptions()
	opts.Cmd = "echo {}"
	m := NewModel(opts, zap.NewNop(), nil)
	t.Cleanup(m.shutdown)

	seedPool(m, "stale")
	m.startMatcher()
	drainUntil(t, m, func() bool { return m.selection.Len() == 1 }, time.Second)
	m.selection.ToggleMark(m.selection.GetCurrentItem())

	m.Dispatch(Action{Kind: ActToggleCmdQueryMode})
	if !m.editingCmdQuery {
		t.Fatal("expected toggle-cmd-query-mode to flip editingCmdQuery on")
	}

	m.Dispatch(Action{Kind: ActInsertRune, Arg: "x"})
	if m.query.GetCmdQuery() != "x" {
		t.Errorf("expected command-query text %q, got %q", "x", m.query.GetCmdQuery())
	}
	if m.query.GetQuery() != "" {
		t.Errorf("expected match-query to stay untouched, got %q", m.query.GetQuery())
	}
	if got := m.query.GetCmd(); got != "echo x" {
		t.Errorf("expected substituted command %q, got %q", "echo x", got)
	}
	if m.clearStrategy != ClearIfNotNull {
		t.Errorf("expected command-query change to set ClearIfNotNull, got %v", m.clearStrategy)
	}
	if m.selection.Len() != 0 || m.selection.GetNumSelected() != 0 {
		t.Error("expected onCmdQueryChange to clear stale results and marks from the old run")
	}

	m.Dispatch(Action{Kind: ActToggleCmdQueryMode})
	if m.editingCmdQuery {
		t.Fatal("expected a second toggle to flip editingCmdQuery back off")
	}
}

func TestModelCursorMoveUpdatesPreviewOnlyOnItemChange(t *testing.T) {
	opts := DefaultOptions()
	opts.PreviewCmd = "echo {}"
	m := NewModel(opts, zap.NewNop(), nil)
	t.Cleanup(m.shutdown)

	seedPool(m, "foo", "bar")
	m.startMatcher()
	drainUntil(t, m, func() bool { return m.selection.Len() == 2 }, time.Second)

	awaitPreview := func() {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for !m.events.Peek(EvtPreviewReady) {
			select {
			case <-deadline:
				t.Fatal("expected a preview to publish a result")
			default:
				time.Sleep(2 * time.Millisecond)
			}
		}
		m.events.Wait(func(ev *util.Events) { ev.Clear() })
	}

	awaitPreview()
	first := m.lastPreviewedItem

	m.Dispatch(Action{Kind: ActMoveCursorDown})
	if m.lastPreviewedItem == first {
		t.Error("expected moving the cursor onto a different item to update lastPreviewedItem")
	}
	awaitPreview()

	m.Dispatch(Action{Kind: ActMoveCursorDown})
	time.Sleep(20 * time.Millisecond)
	if m.events.Peek(EvtPreviewReady) {
		t.Error("expected moving the cursor with no further items to not re-trigger a preview")
	}
}
