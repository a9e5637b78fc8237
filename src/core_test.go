package skim

import (
	"testing"

	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/tui"
)

func TestRunFilterOnlyReturnsMatches(t *testing.T) {
	opts := DefaultOptions()
	opts.Cmd = `printf 'alpha\nbeta\ngamma\n'`
	opts.Query = "ph"
	opts.FilterOnly = true

	outcome, err := Run(opts, tui.NopRenderer{}, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome.Aborted {
		t.Fatal("filter-only run should never report Aborted")
	}

	if len(outcome.Selected) != 1 || outcome.Selected[0].RawText != "alpha" {
		t.Errorf("expected only alpha to match query %q, got %+v", opts.Query, outcome.Selected)
	}
}
