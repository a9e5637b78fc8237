package skim

import (
	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/tui"
	"github.com/shuntaka9576/skim/src/util"
)

// Run wires a Model to a tui.Renderer and drives the Event Loop until
// the user accepts or aborts, returning the final Outcome. Grounded on
// the orchestration role of github.com/junegunn/fzf's src/core.go Run,
// generalized to this engine's Model/Renderer split so a caller can
// substitute tui.NopRenderer in tests or --filter-style headless runs.
func Run(opts Options, renderer tui.Renderer, log *zap.Logger, metrics *Metrics) (Outcome, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if opts.FilterOnly {
		m := NewModel(opts, log, metrics)
		return Outcome{Selected: m.RunToCompletion(), FinalQuery: opts.Query}, nil
	}

	if err := renderer.Init(); err != nil {
		return Outcome{}, err
	}
	defer renderer.Close()

	m := NewModel(opts, log, metrics)
	m.Start()

	stopHeartbeat := make(chan struct{})
	go m.RunHeartbeat(stopHeartbeat)
	defer close(stopHeartbeat)

	draw := func() {
		renderer.Draw(buildFrame(m))
	}
	draw()

	// redraw fires whenever the Reader, Matcher, or Previewer publishes
	// an event onto the shared EventBox, so the screen stays live
	// between keystrokes (new items arriving, search progress, a
	// preview finishing). EventBox.Wait is the only blocking receive on
	// this side of the Event Loop.
	redraw := make(chan struct{}, 1)
	go func() {
		for {
			m.Events().Wait(func(ev *util.Events) { ev.Clear() })
			select {
			case redraw <- struct{}{}:
			default:
			}
		}
	}()

	type keyEvent struct {
		name string
		r    rune
	}
	keys := make(chan keyEvent)
	if poller, ok := renderer.(interface{ PollKey() (string, rune) }); ok {
		go func() {
			for {
				name, r := poller.PollKey()
				keys <- keyEvent{name, r}
			}
		}()
	}

	keymap := DefaultKeymap()
	for {
		select {
		case <-redraw:
			draw()
		case ev := <-keys:
			var act Action
			switch {
			case ev.name != "":
				bound, ok := keymap[ev.name]
				if !ok {
					continue
				}
				act = bound
			case ev.r != 0:
				act = Action{Kind: ActInsertRune, Arg: string(ev.r)}
			default:
				continue
			}
			done, outcome := m.Dispatch(act)
			if done {
				return outcome, nil
			}
			draw()
		}
	}
}

func buildFrame(m *Model) tui.Frame {
	sel := m.Selection()
	lines := make([]tui.Line, sel.Len())
	cur := sel.GetCurrentItemIdx()
	for i := 0; i < sel.Len(); i++ {
		item := sel.items[i].Item
		lines[i] = tui.Line{
			Text:    item.DisplayText,
			Current: i == cur,
			Marked:  sel.marked[item.ItemID],
		}
	}
	return tui.Frame{
		Lines:       lines,
		Query:       m.Query().GetQuery(),
		QueryCursor: len(m.Query().GetQuery()),
		NumMatched:  m.NumMatched(),
		NumTotal:    m.NumProcessed(),
		Prompt:      "> ",
	}
}
